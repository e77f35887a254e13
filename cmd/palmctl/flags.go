package main

import (
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Laisky/errors/v2"

	"github.com/Laisky/palm-client/common/config"
	"github.com/Laisky/palm-client/relay/connection"
	rcontroller "github.com/Laisky/palm-client/relay/controller"
	"github.com/Laisky/palm-client/relay/model"
	"github.com/Laisky/palm-client/relay/operation"
)

// commandKinds maps subcommands to operations.
var commandKinds = map[string]operation.Kind{
	"generate":  operation.KindGenerate,
	"grammar":   operation.KindFixGrammar,
	"reference": operation.KindGetReference,
	"explain":   operation.KindExplainCode,
	"optimize":  operation.KindOptimizeCode,
}

// connectionFlags are shared by every command that talks to the API.
type connectionFlags struct {
	apiKey       string
	modelVersion string
	modelType    string
	useProxy     bool
}

func (f *connectionFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.apiKey, "key", config.APIKey, "API key; defaults to PALM_API_KEY")
	fs.StringVar(&f.modelVersion, "version", config.ModelVersion, "API version, one of "+strings.Join(connection.SupportedVersions, ", "))
	fs.StringVar(&f.modelType, "model", config.ModelType, "model type, one of "+strings.Join(connection.SupportedTypes, ", "))
	fs.BoolVar(&f.useProxy, "proxy", config.UseProxy, "route through the proxy host")
}

func (f *connectionFlags) build() (connection.Connection, error) {
	return connection.Build(strings.TrimSpace(f.apiKey), f.modelVersion, f.modelType,
		connection.WithProxy(f.useProxy))
}

// invocation is a fully parsed operation command.
type invocation struct {
	kind       operation.Kind
	op         operation.Operation
	conn       connectionFlags
	opts       rcontroller.Options
	jsonOutput bool
}

// parseOperationArgs parses the flags of an operation subcommand. Positional
// arguments are joined into the main text when the text flag is empty.
// Parameter validation is left to the client so the CLI reports the same
// errors as every other caller. Help for -h is written to out.
func parseOperationArgs(command string, args []string, out io.Writer) (invocation, error) {
	kind, ok := commandKinds[command]
	if !ok {
		return invocation{}, errors.Errorf("unknown command %q", command)
	}

	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	inv := invocation{kind: kind}
	inv.conn.register(fs)
	fs.BoolVar(&inv.jsonOutput, "json", false, "print the outcome as JSON")

	cfg := model.DefaultGenerationConfig()
	fs.Float64Var(&cfg.Temperature, "temperature", cfg.Temperature, "sampling temperature in [0, 1]")
	fs.IntVar(&cfg.MaxOutputTokens, "max-tokens", cfg.MaxOutputTokens, "maximum output tokens in [1, 1024]")
	fs.Float64Var(&cfg.TopP, "top-p", cfg.TopP, "nucleus sampling in [0, 1]")
	fs.IntVar(&cfg.TopK, "top-k", cfg.TopK, "top-k sampling, at least 1")
	safetySpec := fs.String("safety", "", "threshold overrides, e.g. violence=none,medical=high")

	var (
		text, file                         string
		language, aspect, goal             string
		topic, sourceType, sourceDate, sty string
		numSources                         int
	)
	switch kind {
	case operation.KindGenerate:
		fs.StringVar(&text, "prompt", "", "prompt text")
	case operation.KindFixGrammar:
		fs.StringVar(&text, "text", "", "text to correct")
	case operation.KindGetReference:
		fs.StringVar(&topic, "topic", "", "topic to research")
		fs.StringVar(&sourceType, "source-type", "articles", "one of "+strings.Join(operation.SourceTypes, ", "))
		fs.StringVar(&sourceDate, "source-date", "recent", "date qualifier, e.g. 2020 or later")
		fs.IntVar(&numSources, "num", 3, "number of sources")
		fs.StringVar(&sty, "style", "APA", "citation style, one of "+strings.Join(operation.CitationStyles, ", "))
	case operation.KindExplainCode, operation.KindOptimizeCode:
		fs.StringVar(&text, "code", "", "code snippet")
		fs.StringVar(&file, "file", "", "read the code snippet from a file, - for stdin")
		fs.StringVar(&language, "lang", "", "programming language of the snippet")
		if kind == operation.KindOptimizeCode {
			fs.StringVar(&aspect, "aspect", "general", "one of "+strings.Join(operation.Aspects, ", "))
			fs.StringVar(&goal, "goal", "", "free-form optimisation goal, overrides -aspect")
		}
	}

	if err := parseFlags(fs, args, out); err != nil {
		return invocation{}, err
	}
	if text == "" && fs.NArg() > 0 {
		text = strings.Join(fs.Args(), " ")
	}
	if file != "" {
		code, err := readCode(file)
		if err != nil {
			return invocation{}, err
		}
		text = code
	}

	overrides, err := parseSafety(*safetySpec)
	if err != nil {
		return invocation{}, err
	}
	inv.opts = rcontroller.Options{Config: &cfg, SafetyOverrides: overrides}

	switch kind {
	case operation.KindGenerate:
		inv.op = &operation.Generate{Prompt: text}
	case operation.KindFixGrammar:
		inv.op = &operation.FixGrammar{Text: text}
	case operation.KindGetReference:
		if topic == "" {
			topic = text
		}
		inv.op = &operation.GetReference{
			Topic:         topic,
			SourceType:    sourceType,
			SourceDate:    sourceDate,
			NumSources:    numSources,
			CitationStyle: sty,
		}
	case operation.KindExplainCode:
		inv.op = &operation.ExplainCode{Code: text, Language: language}
	case operation.KindOptimizeCode:
		inv.op = &operation.OptimizeCode{Code: text, Language: language, Aspect: aspect, Goal: goal}
	}
	return inv, nil
}

// parseFlags parses args into fs. On -h it prints the flag defaults to out
// and returns flag.ErrHelp unwrapped.
func parseFlags(fs *flag.FlagSet, args []string, out io.Writer) error {
	err := fs.Parse(args)
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, flag.ErrHelp):
		fmt.Fprintf(out, "usage: palmctl %s [flags]\n\nflags:\n", fs.Name())
		fs.SetOutput(out)
		fs.PrintDefaults()
		return flag.ErrHelp
	default:
		return errors.Wrapf(err, "parse %s flags", fs.Name())
	}
}

// parseSafety reads "category=code" pairs separated by commas.
func parseSafety(spec string) (map[string]string, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}
	overrides := make(map[string]string)
	for _, pair := range strings.Split(spec, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		category, code, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(category) == "" {
			return nil, errors.Wrapf(model.ErrInvalidSelection, "safety override %q is not category=code", pair)
		}
		overrides[strings.TrimSpace(category)] = strings.TrimSpace(code)
	}
	return overrides, nil
}

// readCode loads a snippet from path, or stdin when path is "-".
func readCode(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(io.LimitReader(os.Stdin, 1<<20))
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", errors.Wrapf(err, "read code from %s", path)
	}
	return string(data), nil
}
