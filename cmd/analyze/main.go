// Command analyze runs a single collection analysis from a config JSON
// and writes the result JSON, without starting the HTTP service.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"docsift/internal/config"
	"docsift/internal/docmodel"
	"docsift/internal/parser"
	"docsift/internal/pipeline"
)

var (
	flagInput      string
	flagOutput     string
	flagInputDir   string
	flagOptions    string
	flagWorkers    int
	flagPdftotext  bool
	flagLogVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Rank document sections for a persona and task",
	Long: `Reads a collection config JSON (documents, persona role, job-to-be-done
task, optional analysis options), scores and ranks every section for the
persona, refines the top selections, and writes the result JSON.

Documents either carry inline sections or name files that are parsed
from --input-dir.`,
	RunE:          runAnalyze,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().StringVarP(&flagInput, "input", "i", "", "collection config JSON (required)")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "result JSON path (default stdout)")
	rootCmd.Flags().StringVarP(&flagInputDir, "input-dir", "d", "", "directory holding the documents named in the config")
	rootCmd.Flags().StringVar(&flagOptions, "options", "", "YAML file with analysis option defaults")
	rootCmd.Flags().IntVarP(&flagWorkers, "workers", "w", 4, "scoring worker count")
	rootCmd.Flags().BoolVar(&flagPdftotext, "pdftotext-fallback", true, "fall back to pdftotext when the PDF library fails")
	rootCmd.Flags().BoolVarP(&flagLogVerbose, "verbose", "v", false, "debug logging")
	rootCmd.MarkFlagRequired("input")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if flagLogVerbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	data, err := os.ReadFile(flagInput)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	in, err := pipeline.DecodeCollection(data)
	if err != nil {
		return err
	}

	// Documents without inline sections are parsed from disk.
	for i := range in.Documents {
		doc := &in.Documents[i]
		if len(doc.Sections) > 0 {
			continue
		}
		parsed, err := parseDocument(doc.Filename)
		if err != nil {
			return fmt.Errorf("parse %s: %w", doc.Filename, err)
		}
		if doc.Title != "" {
			parsed.Title = doc.Title
		}
		*doc = *parsed
	}

	defaults := config.DefaultOptions()
	if flagOptions != "" {
		defaults, err = config.LoadOptionsFile(flagOptions)
		if err != nil {
			return err
		}
	}

	req := in.ToRequest(defaults)
	engine := pipeline.NewEngine(flagWorkers, log, pipeline.NewStageStats(15*time.Minute))

	start := time.Now()
	result, err := engine.Analyze(context.Background(), req)
	if err != nil {
		return err
	}
	log.Info("analysis done",
		"sections", result.Metadata.TotalSectionsAnalyzed,
		"selected", result.Metadata.TopSectionsSelected,
		"partial", result.Metadata.Partial,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	out = append(out, '\n')

	if flagOutput == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(flagOutput, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// parseDocument opens a named document under --input-dir and parses it
// into sections.
func parseDocument(filename string) (*docmodel.Document, error) {
	if flagInputDir == "" {
		return nil, fmt.Errorf("document has no sections and no --input-dir was given")
	}
	path := filepath.Join(flagInputDir, filepath.Base(filename))
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := parser.ForFile(filename)
	if err != nil {
		return nil, err
	}
	if pp, ok := p.(*parser.PDFParser); ok {
		pp.FallbackPdftotext = flagPdftotext
	}
	return p.Parse(f, filepath.Base(filename))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
