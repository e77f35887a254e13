// Package main implements palmctl, a command-line client for the PaLM text API.
//
// Every text operation is a subcommand; `probe` checks credentials and `serve`
// exposes the same operations over HTTP. Settings come from the environment
// and an optional .env file, flags override them per invocation.
package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	_ "github.com/joho/godotenv/autoload"

	"github.com/Laisky/palm-client/common"
	"github.com/Laisky/palm-client/common/client"
	"github.com/Laisky/palm-client/common/config"
	"github.com/Laisky/palm-client/common/logger"
	"github.com/Laisky/palm-client/common/network"
	"github.com/Laisky/palm-client/common/telemetry"
	"github.com/Laisky/palm-client/monitor"
)

// exitOutcome is the exit code when the API answered with anything but text.
const exitOutcome = 2

const usage = `usage: palmctl <command> [flags]

commands:
  generate   send a free-form prompt
  grammar    correct the grammar of a text
  reference  find citable sources on a topic
  explain    explain a code snippet
  optimize   optimise a code snippet
  probe      check the key against every supported model version
  serve      expose the operations over HTTP

run "palmctl <command> -h" for the flags of a command.
`

// main configures logging, listens for termination signals, and dispatches the subcommand.
func main() {
	config.Load()
	if err := logger.Setup("palmctl", config.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %+v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := ""
	if len(os.Args) > 1 {
		command = strings.ToLower(strings.TrimSpace(os.Args[1]))
	}
	if command == "" || command == "help" || command == "-h" || command == "--help" {
		fmt.Fprint(os.Stdout, usage)
		return
	}

	err := execute(ctx, command, os.Args[2:], os.Stdout, os.Stderr)
	var oe *outcomeError
	switch {
	case err == nil, stderrors.Is(err, flag.ErrHelp):
	case stderrors.As(err, &oe):
		os.Exit(exitOutcome)
	default:
		logger.Logger.Error("command failed", zap.String("command", command), zap.Error(err))
		os.Exit(1)
	}
}

// execute initialises the shared infrastructure and runs one command.
func execute(ctx context.Context, command string, args []string, stdout, stderr io.Writer) error {
	if err := setup(); err != nil {
		return err
	}

	bundle, err := telemetry.InitOpenTelemetry(ctx)
	if err != nil {
		return errors.Wrap(err, "init OpenTelemetry")
	}
	defer func() {
		if err := bundle.Shutdown(context.Background()); err != nil {
			logger.Logger.Warn("shutdown OpenTelemetry", zap.Error(err))
		}
	}()
	if err := monitor.InitMonitoring(common.Version, common.BuildTime, runtime.Version(), common.StartTime); err != nil {
		return errors.Wrap(err, "init monitoring")
	}

	switch command {
	case "probe":
		return probe(ctx, args, stdout)
	case "serve":
		return serve(ctx, args, stdout)
	default:
		return runOperation(ctx, command, args, stdout, stderr)
	}
}

// setup validates endpoint overrides and builds the shared HTTP clients.
func setup() error {
	var err error
	if config.BaseURL, err = network.ValidateBaseURL(config.BaseURL); err != nil {
		return errors.Wrap(err, "PALM_BASE_URL")
	}
	if config.ProxyBaseURL, err = network.ValidateBaseURL(config.ProxyBaseURL); err != nil {
		return errors.Wrap(err, "PALM_PROXY_BASE_URL")
	}
	return client.Init()
}
