package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/aescanero/dago-node-render/internal/eval/cel"
	"github.com/aescanero/dago-node-render/internal/eval/template"
	"github.com/aescanero/dago-node-render/internal/render"
	"github.com/aescanero/dago-node-render/internal/schema"
)

// schemaFiles collects repeated -schema flags in order
type schemaFiles []string

func (s *schemaFiles) String() string {
	return strings.Join(*s, ",")
}

func (s *schemaFiles) Set(path string) error {
	*s = append(*s, path)
	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("tplrender", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var schemas schemaFiles
	path := flags.String("path", "", "template file to render")
	source := flags.String("source", "", "inline template source")
	setJSON := flags.String("set-json", "", "JSON schema merged after the schema files")
	output := flags.String("output", "", "output file (stdout if empty)")
	withCEL := flags.Bool("cel", true, "enable the CEL when helper")
	verbose := flags.Bool("v", false, "log merge and render decisions to stderr")
	flags.Var(&schemas, "schema", "schema file (.json, .yaml, .msgpack); repeat to merge in order")

	if err := flags.Parse(args); err != nil {
		return 2
	}
	if (*path == "") == (*source == "") {
		fmt.Fprintln(stderr, "exactly one of -path or -source is required")
		flags.Usage()
		return 2
	}

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
			return 1
		}
		logger = l
		defer func() { _ = logger.Sync() }()
	}

	var engineOptions []template.Option
	if *withCEL {
		evaluator, err := cel.NewEvaluator()
		if err != nil {
			fmt.Fprintf(stderr, "Failed to create CEL evaluator: %v\n", err)
			return 1
		}
		engineOptions = append(engineOptions, template.WithCEL(evaluator))
	}

	tpl, err := render.New(
		render.WithEngine(render.NewHandlebarsEngine(template.NewEngine(engineOptions...))),
		render.WithLogger(logger),
		render.WithPath(*path),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to create template: %v\n", err)
		return 1
	}
	if *source != "" {
		tpl.SetSource(*source)
	}

	for _, file := range schemas {
		in, err := schema.LoadFile(file)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load schema: %v\n", err)
			return 1
		}
		if err := mergeInput(tpl, in); err != nil {
			fmt.Fprintf(stderr, "Failed to merge %s: %v\n", file, err)
			return 1
		}
	}
	if *setJSON != "" {
		if err := tpl.MergeSchema(*setJSON); err != nil {
			fmt.Fprintf(stderr, "Failed to merge -set-json: %v\n", err)
			return 1
		}
	}

	content, renderErr := tpl.RenderOnce()
	fmt.Fprintf(stderr, "status: %s %s", tpl.StatusCode(), tpl.StatusText())
	if tpl.StatusParam() != "" {
		fmt.Fprintf(stderr, " (%s)", tpl.StatusParam())
	}
	fmt.Fprintln(stderr)

	if renderErr != nil {
		fmt.Fprintf(stderr, "Failed to render template: %v\n", renderErr)
		return 1
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(content), 0o644); err != nil {
			fmt.Fprintf(stderr, "Failed to write output: %v\n", err)
			return 1
		}
		return 0
	}
	fmt.Fprint(stdout, content)
	return 0
}

func mergeInput(tpl *render.Template, in schema.Input) error {
	switch s := in.(type) {
	case schema.SerializedText:
		return tpl.MergeSchema(s.Text)
	case schema.CompactBinary:
		return tpl.MergeSchemaBinary(s.Data)
	case schema.Structured:
		return tpl.MergeSchemaValue(s.Value)
	default:
		return nil
	}
}
