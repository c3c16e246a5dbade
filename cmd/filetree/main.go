package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/temirov/filetree/internal/cli"
	"github.com/temirov/filetree/internal/utils"
)

const (
	logLevelEnvironmentVariable             = "FILETREE_LOG_LEVEL"
	loggerInitializationFailedMessageFormat = "failed to initialize logger: %v\n"
	applicationExecutionFailedMessage       = "filetree failed"
)

// main is the entry point for the filetree command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger(os.Getenv(logLevelEnvironmentVariable))
	if loggerInitializationError != nil {
		fmt.Fprintf(os.Stderr, loggerInitializationFailedMessageFormat, loggerInitializationError)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	executionError := cli.Execute(ctx, loggerInstance)
	stop()
	if executionError != nil {
		loggerInstance.Error(applicationExecutionFailedMessage, zap.Error(executionError))
		_ = loggerInstance.Sync()
		os.Exit(1)
	}
	_ = loggerInstance.Sync()
}
