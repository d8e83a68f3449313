// cmd/tools/score-file/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"maturity-workers/internal/common/logger"
	"maturity-workers/internal/common/validation"
	"maturity-workers/internal/models"

	ac "maturity-workers/internal/workers/maturity/aggregate-cohort"
	rml "maturity-workers/internal/workers/maturity/resolve-maturity-level"
	sa "maturity-workers/internal/workers/maturity/score-assessment"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		help(out)
		return fmt.Errorf("a subcommand is required")
	}

	switch args[0] {
	case "score":
		return scoreCmd(args[1:], out)
	case "cohort":
		return cohortCmd(args[1:], out)
	case "level":
		return levelCmd(args[1:], out)
	case "help":
		help(out)
		return nil
	default:
		help(out)
		return fmt.Errorf("unknown subcommand %q", args[0])
	}
}

func scoreCmd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("score", flag.ContinueOnError)
	inputPath := fs.String("input", "", "Path to an assessment JSON file")
	configPath := fs.String("config", "", "Optional scoring config JSON (level_thresholds, default_weights)")
	logPath := fs.String("log", "", "Write debug logs to this path (stderr for the terminal)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inputPath == "" {
		fs.Usage()
		return fmt.Errorf("-input is required")
	}

	raw, err := readDocument(*inputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if err := checkSchema(validation.ValidateAssessmentInput(string(raw))); err != nil {
		return err
	}

	var input sa.Input
	if err := json.Unmarshal(raw, &input); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}

	if *configPath != "" {
		cfg, err := readScoringConfig(*configPath)
		if err != nil {
			return err
		}
		input.ScoringConfig = cfg
	}

	handler := sa.NewHandler(nil, nil, nil, toolLogger(*logPath))
	output, err := handler.Execute(context.Background(), &input)
	if err != nil {
		return err
	}
	return printJSON(out, output)
}

func cohortCmd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("cohort", flag.ContinueOnError)
	inputPath := fs.String("input", "", "Path to a JSON array of assessment summaries")
	areas := fs.String("areas", "", "Comma-separated areas to always report")
	logPath := fs.String("log", "", "Write debug logs to this path (stderr for the terminal)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inputPath == "" {
		fs.Usage()
		return fmt.Errorf("-input is required")
	}

	raw, err := readDocument(*inputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	var summaries []json.RawMessage
	if err := json.Unmarshal(raw, &summaries); err != nil {
		return fmt.Errorf("parse input: expected a JSON array of summaries: %w", err)
	}
	document := fmt.Sprintf(`{"summaries": %s}`, raw)
	if err := checkSchema(validation.ValidateCohortInput(document)); err != nil {
		return err
	}

	var input ac.Input
	if err := json.Unmarshal([]byte(document), &input); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}
	input.Areas = splitList(*areas)

	handler := ac.NewHandler(nil, nil, toolLogger(*logPath))
	output, err := handler.Execute(context.Background(), &input)
	if err != nil {
		return err
	}
	return printJSON(out, output.Stats)
}

func levelCmd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("level", flag.ContinueOnError)
	score := fs.Float64("score", -1, "Score between 0 and 100 to classify")
	level := fs.Int("level", -1, "Level between 0 and 4 to describe (ignored when -score is set)")
	year := fs.Int("year", 0, "Transformation year (1-5) to compare against")
	configPath := fs.String("config", "", "Optional scoring config JSON")
	logPath := fs.String("log", "", "Write debug logs to this path (stderr for the terminal)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	input := rml.Input{}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["score"] {
		input.Score = score
	}
	if set["level"] {
		input.Level = level
	}
	if input.Score == nil && input.Level == nil {
		fs.Usage()
		return fmt.Errorf("one of -score or -level is required")
	}
	if set["year"] {
		if *year < 1 || *year > 5 {
			return fmt.Errorf("-year must be between 1 and 5")
		}
		input.TransformationYear = year
	}
	if *configPath != "" {
		cfg, err := readScoringConfig(*configPath)
		if err != nil {
			return err
		}
		input.ScoringConfig = cfg
	}

	handler := rml.NewHandler(nil, toolLogger(*logPath))
	output, err := handler.Execute(context.Background(), &input)
	if err != nil {
		return err
	}
	return printJSON(out, output)
}

// toolLogger returns a no-op logger unless a -log destination is given.
func toolLogger(path string) logger.Logger {
	if path == "" {
		return logger.NewNoOpLogger()
	}
	return logger.NewStructured("debug", "json", path)
}

func readScoringConfig(path string) (*models.ScoringConfig, error) {
	raw, err := readDocument(path)
	if err != nil {
		return nil, fmt.Errorf("read scoring config: %w", err)
	}
	var cfg models.ScoringConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse scoring config: %w", err)
	}
	return &cfg, nil
}

// readDocument returns the file as JSON. YAML files are converted so the
// same schemas apply to both.
func readDocument(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc interface{}
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml %s: %w", path, err)
		}
		return json.Marshal(doc)
	default:
		return raw, nil
	}
}

func checkSchema(result *validation.ValidationResult, err error) error {
	if err != nil {
		return fmt.Errorf("parse input: %w", err)
	}
	if !result.Valid {
		return fmt.Errorf("input failed validation:\n  %s", strings.Join(result.GetErrorMessages(), "\n  "))
	}
	return nil
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func help(out io.Writer) {
	fmt.Fprintln(out, "Usage: score-file <command> [options]")
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  score   -input assessment.json [-config scoring.json]")
	fmt.Fprintln(out, "  cohort  -input summaries.json [-areas a,b]")
	fmt.Fprintln(out, "  level   -score 71.2 | -level 3 [-year 3] [-config scoring.json]")
	fmt.Fprintln(out, "  help    Show this help message")
	fmt.Fprintln(out, "Input and config files may be JSON or YAML.")
	fmt.Fprintln(out, "Every command accepts -log <path|stderr> to write debug logs.")
}
