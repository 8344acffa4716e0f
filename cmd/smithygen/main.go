// Command smithygen is a thin demonstration CLI wiring the model parser,
// Shape Emitter, and Rules Generator into one pipeline. It replaces the
// teacher's flag-based cmd/smithy with a cobra command, the way the pack
// builds CLI surfaces (SPEC_FULL.md "Configuration").
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/boynton/smithygen/emitter"
	"github.com/boynton/smithygen/gen"
	"github.com/boynton/smithygen/id"
	"github.com/boynton/smithygen/internal/textbuilder"
	"github.com/boynton/smithygen/jsonstream"
	"github.com/boynton/smithygen/parser"
	"github.com/boynton/smithygen/rules"
	"github.com/boynton/smithygen/traits"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		outPath   string
		rulesPath string
		strict    bool
	)
	cmd := &cobra.Command{
		Use:   "smithygen <model.json>",
		Short: "Generate a Go client from a Smithy JSON AST model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer logger.Sync()
			return run(args[0], outPath, rulesPath, strict, logger)
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write generated source here (defaults to stdout)")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "optional endpoint rule-set JSON to lower alongside the model")
	cmd.Flags().BoolVar(&strict, "strict", false, "abort on the first parse or emit issue instead of recording it")
	return cmd
}

func run(modelPath, outPath, rulesPath string, strict bool, logger *zap.Logger) error {
	f, err := os.Open(modelPath)
	if err != nil {
		return fmt.Errorf("opening model: %w", err)
	}
	defer f.Close()

	reg := traits.NewRegistry()
	traits.RegisterBuiltins(reg)

	parsePolicy := parser.DefaultPolicy()
	emitPolicy := emitter.DefaultPolicy()
	if strict {
		parsePolicy = parser.StrictPolicy()
		emitPolicy = emitter.StrictPolicy()
	}

	parseIssues := &parser.IssueBag{}
	store, err := parser.ParseJSON(reg, parsePolicy, parseIssues, jsonstream.New(f))
	if err != nil {
		return fmt.Errorf("parsing model: %w", err)
	}
	for _, issue := range parseIssues.All() {
		logger.Warn("parse issue", zap.String("issue", issue.String()))
	}
	if store.ServiceID == id.NULL {
		return fmt.Errorf("model declares no service shape")
	}

	b := textbuilder.New()
	emitIssues := &emitter.IssueBag{}
	hooks := emitter.Hooks{
		WriteErrorShape:    emitter.DefaultWriteErrorShape,
		WriteOperationBody: emitter.DefaultWriteOperationBody,
	}
	if err := emitter.WriteScript(b, store, hooks, emitPolicy, emitIssues, store.ServiceID); err != nil {
		return fmt.Errorf("emitting client: %w", err)
	}
	for _, issue := range emitIssues.All() {
		logger.Warn("emit issue", zap.String("issue", issue.String()))
	}

	if rulesPath != "" {
		if err := emitResolver(b, rulesPath, logger); err != nil {
			return fmt.Errorf("emitting endpoint resolver: %w", err)
		}
	}

	return writeOutput(b, outPath)
}

func emitResolver(b gen.Builder, rulesPath string, logger *zap.Logger) error {
	f, err := os.Open(rulesPath)
	if err != nil {
		return err
	}
	defer f.Close()

	rs, err := rules.ParseRuleSet(jsonstream.New(f))
	if err != nil {
		return err
	}
	reg := rules.NewRegistry()
	logger.Info("lowering endpoint rule-set", zap.Int("rules", len(rs.Rules)), zap.Int("parameters", len(rs.Parameters)))
	return rules.GenerateResolver(b, "ResolveEndpoint", "Config", rs, reg)
}

func writeOutput(b gen.Builder, outPath string) error {
	if outPath == "" {
		_, err := fmt.Println(b.String())
		return err
	}
	return os.WriteFile(outPath, []byte(b.String()), 0o644)
}
