package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/platformsh-env/internal/application"
	"github.com/eugenenazirov/platformsh-env/internal/config"
	"github.com/eugenenazirov/platformsh-env/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("platformenv", "Maps hosting platform runtime facts onto the environment variables a web framework expects")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	factsFile := kingpinApp.Flag("facts", "Path to YAML platform facts file").String()
	sinks := kingpinApp.Flag("sink", "Environment sink to write to (process, memory); repeatable").Strings()
	logLevel := kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").String()
	printEnv := kingpinApp.Flag("print", "Print the mapped variables as dotenv lines on stdout").Bool()
	command := kingpinApp.Arg("command", "Command to execute with the mapped environment").Strings()

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
		Sinks:      *sinks,
	}

	if *factsFile != "" {
		overrides.FactsFile = factsFile
	}

	if *logLevel != "" {
		overrides.LogLevel = logLevel
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	plan, err := app.Run()
	if err != nil {
		logger.Fatal("failed to map environment", zap.Error(err))
	}

	if *printEnv {
		if err := application.WriteDotenv(os.Stdout, plan); err != nil {
			logger.Fatal("failed to print environment", zap.Error(err))
		}
	}

	code := 0
	if len(*command) > 0 {
		code = execute(*command, application.Environ(os.Environ(), plan), logger)
	}

	_ = logger.Sync()
	os.Exit(code)
}

// execute runs args with env, forwarding termination signals, and returns its exit code.
func execute(args, env []string, logger *zap.Logger) int {
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		logger.Error("failed to start command", zap.String("command", args[0]), zap.Error(err))
		return 127
	}

	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case sig := <-quit:
				_ = cmd.Process.Signal(sig)
			case <-done:
				return
			}
		}
	}()

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitCode(exitErr)
		}
		logger.Error("command failed", zap.String("command", args[0]), zap.Error(err))
		return 1
	}
	return 0
}

// exitCode follows the shell convention of 128+signal for children killed by a signal.
func exitCode(exitErr *exec.ExitError) int {
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return 128 + int(status.Signal())
	}
	return exitErr.ExitCode()
}
