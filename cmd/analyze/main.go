// Command analyze runs the document analysis pipeline against a local text
// file without the server, database, or blob storage. Provider credentials
// come from the environment or config.toml, same as the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gavel-labs/gavel/internal/analysis"
	"github.com/gavel-labs/gavel/internal/config"
	"github.com/gavel-labs/gavel/internal/infrastructure"
	"github.com/gavel-labs/gavel/internal/pipeline"
	"github.com/gavel-labs/gavel/internal/prompts"
)

func main() {
	var (
		file    = flag.String("file", "", "Path to the document text file to analyze")
		output  = flag.String("output", "", "Write the full result as JSON to this path")
		verbose = flag.Bool("verbose", false, "Log pipeline progress to stderr")
	)
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze -file <path> [-output <path>] [-verbose]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed: ", err)
	}

	logger := buildLogger(*verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := run(ctx, cfg, logger, *file)
	if err != nil {
		log.Fatal("analysis failed: ", err)
	}

	printSummary(result)

	if *output != "" {
		if err := writeResult(*output, result); err != nil {
			log.Fatal("write output failed: ", err)
		}
		fmt.Printf("\nFull result written to %s\n", *output)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, path string) (*pipeline.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	manager, err := infrastructure.NewManager(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	store, err := prompts.NewStore(cfg.Pipeline.PromptDir, logger)
	if err != nil {
		return nil, err
	}

	runtime := &pipeline.Runtime{
		Invoker:     manager,
		Prompts:     store,
		Logger:      logger,
		Concurrency: cfg.Pipeline.Concurrency,
	}

	return pipeline.Run(ctx, runtime, string(data))
}

func buildLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func printSummary(result *pipeline.Result) {
	fmt.Printf("Document type: %s\n", result.Profile.DocumentType)
	fmt.Printf("Provider: %s\n", result.Provider)
	fmt.Printf("Clauses: %d\n\n", len(result.Clauses))

	fmt.Printf("Summary: %s\n\n", result.Profile.Summary)

	fmt.Println("Risk triage:")
	fmt.Printf("  high:   %d\n", len(result.Triage.High))
	fmt.Printf("  medium: %d\n", len(result.Triage.Medium))
	fmt.Printf("  low:    %d\n", len(result.Triage.Low))
	fmt.Printf("  none:   %d\n", len(result.Triage.None))

	high := analysis.HighRisk(result.Assessments)
	if len(high) == 0 {
		return
	}

	fmt.Println("\nHigh-risk clauses:")
	for _, a := range high {
		fmt.Printf("  %s (score %.2f): %s\n", a.ClauseID, a.RiskScore, a.OverallAssessment)
		for _, rec := range a.Recommendations {
			fmt.Printf("    - %s\n", rec)
		}
	}
}

func writeResult(path string, result *pipeline.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
