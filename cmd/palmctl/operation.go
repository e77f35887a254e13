package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Laisky/errors/v2"

	rcontroller "github.com/Laisky/palm-client/relay/controller"
	"github.com/Laisky/palm-client/relay/model"
)

// outcomeError reports that the API answered without generated text.
// The outcome has already been printed when it is returned.
type outcomeError struct {
	outcome model.Outcome
}

func (e *outcomeError) Error() string {
	return "palm answered with " + e.outcome.Kind.String()
}

// runOperation parses, sends and prints one text operation.
func runOperation(ctx context.Context, command string, args []string, stdout, stderr io.Writer) error {
	inv, err := parseOperationArgs(command, args, stdout)
	if err != nil {
		return err
	}
	conn, err := inv.conn.build()
	if err != nil {
		return err
	}
	palmClient, err := rcontroller.New(conn)
	if err != nil {
		return err
	}

	outcome, err := palmClient.Do(ctx, inv.op, inv.opts)
	if err != nil {
		return err
	}
	return printOutcome(stdout, stderr, outcome, inv.jsonOutput)
}

// printOutcome writes generated text to stdout and everything else to stderr.
// Only Success and SafetyAdvisory return nil.
func printOutcome(stdout, stderr io.Writer, outcome model.Outcome, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(outcome); err != nil {
			return errors.Wrap(err, "encode outcome")
		}
	} else {
		switch outcome.Kind {
		case model.OutcomeSuccess:
			fmt.Fprintln(stdout, outcome.Text)
		case model.OutcomeError:
			fmt.Fprintf(stderr, "error: %s\n", outcome.Message)
		case model.OutcomeSafetyWarning:
			fmt.Fprintf(stderr, "blocked by safety filters: %s\n", strings.Join(outcome.Categories, ", "))
		case model.OutcomeSafetyAdvisory:
			fmt.Fprintf(stderr, "note: %s\n", outcome.Message)
		default:
			msg := "unrecognised response"
			if outcome.Message != "" {
				msg += " (" + outcome.Message + ")"
			}
			fmt.Fprintln(stderr, msg)
		}
	}

	if outcome.Err() != nil {
		return &outcomeError{outcome: outcome}
	}
	return nil
}
