package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/fairshare/internal/loadcheck"
)

// Default configuration constants.
const (
	defaultNumScenarios = 1000
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultTimeout      = 30 * time.Second
	defaultTestTimeout  = 10 * time.Minute
)

func main() {
	var (
		baseURL      = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numScenarios = flag.Int("scenarios", defaultNumScenarios, "Number of random calculations to submit")
		workers      = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout      = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		tolerance    = flag.Float64("tolerance", loadcheck.DefaultTolerance, "Settlement tolerance when the service does not report one")
		scenarioFile = flag.String("scenario", "", "YAML scenario to submit once and print as a report")
		outputFile   = flag.String("output", "", "JSON file receiving failing scenarios")
		logFile      = flag.String("log", "", "Log file for test output (default: check_log_TIMESTAMP.log)")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadcheck.ShowHelp(os.Stdout)
		return
	}

	closeLog, err := loadcheck.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)

	config := &loadcheck.Config{
		BaseURL:      *baseURL,
		NumScenarios: *numScenarios,
		Workers:      *workers,
		Timeout:      *timeout,
		Tolerance:    *tolerance,
		ScenarioFile: *scenarioFile,
		OutputFile:   *outputFile,
		LogFile:      *logFile,
		Verbose:      *verbose,
	}

	if config.ScenarioFile != "" {
		err = loadcheck.RunScenario(ctx, config, os.Stdout)
	} else {
		_, err = loadcheck.Run(ctx, config)
	}

	stop()
	cancel()
	_ = closeLog()

	if err != nil {
		os.Stderr.WriteString("Check failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
