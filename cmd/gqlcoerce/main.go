package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/hanpama/gqlcoerce/internal/eventbus"
	"github.com/hanpama/gqlcoerce/internal/executor"
	"github.com/hanpama/gqlcoerce/internal/fixturert"
	"github.com/hanpama/gqlcoerce/internal/introspection"
	"github.com/hanpama/gqlcoerce/internal/language"
	"github.com/hanpama/gqlcoerce/internal/otel"
	"github.com/hanpama/gqlcoerce/internal/schema"
	"github.com/hanpama/gqlcoerce/internal/server"
	"github.com/hanpama/gqlcoerce/internal/variables"
)

const rootUsage = `gqlcoerce: GraphQL variable coercion and validation

USAGE:
  gqlcoerce <command> [flags]

COMMANDS:
  check            Coerce request variables against an operation and report
  serve            Run an HTTP GraphQL endpoint over a JSON fixture
  help             Show help for any command
`

const checkUsage = `check FLAGS:
  -schema <file>       GraphQL SDL file (required)
  -query <file>        GraphQL document file (required)
  -operation <name>    Operation to check when the document has several
  -variables <file>    JSON object of request variables (default: none)
  -max-depth <n>       Coercion nesting limit (default: 64)
  (Exits non-zero when any fatal error is reported)
`

const serveUsage = `serve FLAGS:
  -schema <file>                      GraphQL SDL file (required)
  -data <file>                        JSON fixture document (required)
  -max-depth <n>                      Coercion nesting limit (default: 64)
  -server.addr <addr>                 HTTP listen address (default: :8080)
  -server.pretty                      Pretty-print JSON responses
  -server.timeout <duration>          Per-request timeout, e.g. 10s (default: 10s)
  -server.max-body <bytes>            Request body limit (default: 1048576)
  -server.cors <origin>               Allowed CORS origin. Repeatable
  -server.metadata-header <name>      Forward HTTP header to gRPC metadata. Repeatable
  -server.log                         Log one line per operation
  -graphql.introspection              Answer __schema and __type queries (default: true)
  -otel.endpoint <addr>               OTLP collector endpoint
  -otel.service <name>                OpenTelemetry service name (default: gqlcoerce)
`

var errCheckFailed = errors.New("variables rejected")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, rootUsage)
		return fmt.Errorf("missing command")
	}
	cmd, cmdArgs := args[0], args[1:]
	switch cmd {
	case "check":
		return cmdCheck(cmdArgs, stdout, stderr)
	case "serve":
		return cmdServe(cmdArgs, stderr)
	case "help":
		return cmdHelp(cmdArgs, stdout)
	default:
		fmt.Fprint(stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, rootUsage)
		return nil
	}
	switch args[0] {
	case "check":
		fmt.Fprint(stdout, checkUsage)
	case "serve":
		fmt.Fprint(stdout, serveUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

type stringListFlag []string

func (s *stringListFlag) String() string { return "" }

func (s *stringListFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// checkReport is the output of the check command.
type checkReport struct {
	Variables map[string]any                 `json:"variables"`
	Types     map[string]variables.TypeTrace `json:"types"`
	Errors    variables.Errors               `json:"errors"`
}

func cmdCheck(args []string, stdout, stderr io.Writer) error {
	schemaFile := ""
	queryFile := ""
	operation := ""
	varsFile := ""
	maxDepth := variables.DefaultMaxDepth

	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&schemaFile, "schema", schemaFile, "GraphQL SDL file")
	fs.StringVar(&queryFile, "query", queryFile, "GraphQL document file")
	fs.StringVar(&operation, "operation", operation, "Operation name")
	fs.StringVar(&varsFile, "variables", varsFile, "JSON variables file")
	fs.IntVar(&maxDepth, "max-depth", maxDepth, "Coercion nesting limit")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(stderr, checkUsage)
		return err
	}
	if schemaFile == "" || queryFile == "" {
		fmt.Fprint(stderr, checkUsage)
		return fmt.Errorf("-schema and -query are required")
	}

	sch, err := loadSchema(schemaFile)
	if err != nil {
		return err
	}
	src, err := os.ReadFile(queryFile)
	if err != nil {
		return err
	}
	doc, err := language.ParseQuery(string(src))
	if err != nil {
		return fmt.Errorf("parse query: %w", err)
	}
	op := doc.Operations.ForName(operation)
	if op == nil {
		return fmt.Errorf("operation %q not found", operation)
	}
	raw := map[string]any{}
	if varsFile != "" {
		if raw, err = loadVariables(varsFile); err != nil {
			return err
		}
	}

	res := variables.Coerce(sch, op.VariableDefinitions, raw, variables.WithMaxDepth(maxDepth))
	report := checkReport{Variables: res.Values(), Types: map[string]variables.TypeTrace{}, Errors: res.Errors}
	for name, p := range res.Processed {
		report.Types[name] = p.Trace
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}
	if res.Failed() {
		return errCheckFailed
	}
	return nil
}

func cmdServe(args []string, stderr io.Writer) error {
	schemaFile := ""
	dataFile := ""
	maxDepth := variables.DefaultMaxDepth
	addr := ":8080"
	pretty := false
	timeout := 10 * time.Second
	maxBody := int64(1 << 20)
	accessLog := false
	introspect := true
	otelEndpoint := ""
	otelService := "gqlcoerce"
	var corsOrigins stringListFlag
	var metadataHeaders stringListFlag

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&schemaFile, "schema", schemaFile, "GraphQL SDL file")
	fs.StringVar(&dataFile, "data", dataFile, "JSON fixture document")
	fs.IntVar(&maxDepth, "max-depth", maxDepth, "Coercion nesting limit")
	fs.StringVar(&addr, "server.addr", addr, "HTTP listen address")
	fs.BoolVar(&pretty, "server.pretty", pretty, "Pretty-print JSON responses")
	fs.DurationVar(&timeout, "server.timeout", timeout, "Per-request timeout")
	fs.Int64Var(&maxBody, "server.max-body", maxBody, "Request body limit")
	fs.Var(&corsOrigins, "server.cors", "Allowed CORS origin")
	fs.Var(&metadataHeaders, "server.metadata-header", "Forward HTTP header to gRPC metadata")
	fs.BoolVar(&accessLog, "server.log", accessLog, "Log one line per operation")
	fs.BoolVar(&introspect, "graphql.introspection", introspect, "Answer introspection queries")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(stderr, serveUsage)
		return err
	}
	if schemaFile == "" || dataFile == "" {
		fmt.Fprint(stderr, serveUsage)
		return fmt.Errorf("-schema and -data are required")
	}

	sch, err := loadSchema(schemaFile)
	if err != nil {
		return err
	}
	fixture, err := fixturert.LoadFile(dataFile)
	if err != nil {
		return fmt.Errorf("load fixture: %w", err)
	}
	var runtime executor.Runtime = fixture
	if introspect {
		wrapper := introspection.Wrap(fixture, sch)
		runtime, sch = wrapper.Runtime, wrapper.Schema
	}

	bus := eventbus.New()
	eventbus.Use(bus)
	if accessLog {
		defer attachAccessLog(bus, log.Default())()
	}
	shutdown, err := otel.Setup(bus, otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	sopts := []server.Option{
		server.WithTimeout(timeout),
		server.WithMaxBodyBytes(maxBody),
		server.WithCoercion(variables.WithMaxDepth(maxDepth)),
	}
	if pretty {
		sopts = append(sopts, server.WithPretty())
	}
	if len(corsOrigins) > 0 {
		sopts = append(sopts, server.WithCORS(corsOrigins...))
	}
	if len(metadataHeaders) > 0 {
		sopts = append(sopts, server.WithMetadataHeaders(metadataHeaders...))
	}

	mux := http.NewServeMux()
	mux.Handle("/graphql", server.New(runtime, sch, sopts...))

	log.Printf("GraphQL server listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}

func loadSchema(path string) (*schema.Schema, error) {
	sdl, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sch, err := schema.BuildFromSDL(string(sdl))
	if err != nil {
		return nil, fmt.Errorf("build schema: %w", err)
	}
	return sch, nil
}

// loadVariables decodes a JSON object keeping numbers as json.Number.
func loadVariables(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode variables: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}
