package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/Laisky/palm-client/relay/connection"
	rcontroller "github.com/Laisky/palm-client/relay/controller"
)

// probeResult is the outcome of probing one model version.
type probeResult struct {
	version string
	err     error
}

// probe checks the key against every supported version concurrently and
// fails when the selected version is rejected.
func probe(ctx context.Context, args []string, stdout io.Writer, opts ...rcontroller.ClientOption) error {
	fs := flag.NewFlagSet("probe", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var cf connectionFlags
	cf.register(fs)
	if err := parseFlags(fs, args, stdout); err != nil {
		return err
	}

	selected, err := cf.build()
	if err != nil {
		return err
	}

	results := probeVersions(ctx, selected, connection.SupportedVersions, opts...)
	var selectedErr error
	for _, r := range results {
		status := "ok"
		if r.err != nil {
			status = "FAIL: " + r.err.Error()
		}
		marker := " "
		if r.version == selected.ModelVersion() {
			marker = "*"
			selectedErr = r.err
		}
		fmt.Fprintf(stdout, "%s %s/%s %s\n", marker, r.version, selected.ModelType(), status)
	}
	return selectedErr
}

// probeVersions probes each version with its own connection. A failure is
// reported in its result and never cancels the other probes.
func probeVersions(ctx context.Context, base connection.Connection, versions []string, opts ...rcontroller.ClientOption) []probeResult {
	results := make([]probeResult, len(versions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i, version := range versions {
		g.Go(func() error {
			r := probeResult{version: version}
			conn, err := connection.Build(base.APIKey(), version, base.ModelType(),
				connection.WithProxy(base.UseProxy()))
			if err == nil {
				var palmClient *rcontroller.Client
				if palmClient, err = rcontroller.New(conn, opts...); err == nil {
					err = palmClient.Ping(gctx)
				}
			}
			r.err = err
			results[i] = r
			return nil
		})
	}
	_ = g.Wait()
	return results
}
