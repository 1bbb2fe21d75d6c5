package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"personagen/internal/batch"
	"personagen/internal/persona"
	"personagen/internal/provider"
	"personagen/internal/store"
	"personagen/internal/types"
)

var (
	genArtifacts   int
	genDB          string
	genCategories  string
	genModel       string
	genTemperature float64
	genSeed        int64
	genOutput      string
)

var generateCmd = &cobra.Command{
	Use:   "generate [description]",
	Short: "Generate a persona and its artifacts",
	Long: `Builds a persona from the description, generates artifacts for it
through the configured provider, validates them, and persists the valid
ones to SQLite.

Example:
  personagen generate "Senior Python engineer" --artifacts 10 --seed 42`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().IntVar(&genArtifacts, "artifacts", 5, "Number of artifacts to generate")
	generateCmd.Flags().StringVar(&genDB, "db", "", "Database file path (default from config)")
	generateCmd.Flags().StringVar(&genCategories, "categories", strings.Join(types.DefaultCategories, ","), "Comma-separated artifact categories")
	generateCmd.Flags().StringVar(&genModel, "model", "", "LLM model to use (default from config)")
	generateCmd.Flags().Float64Var(&genTemperature, "temperature", 0.75, "Sampling temperature (0.0-1.0)")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "Random seed for reproducibility")
	generateCmd.Flags().StringVar(&genOutput, "output", "", "Export generated artifacts to this JSON file")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	description := args[0]

	var seed *int64
	if cmd.Flags().Changed("seed") {
		seed = &genSeed
	}

	model := genModel
	if model == "" {
		model = cfg.Provider.Model
	}
	dbPath := genDB
	if dbPath == "" {
		dbPath = cfg.Storage.DatabasePath
	}

	var categories []string
	for _, c := range strings.Split(genCategories, ",") {
		if c = strings.TrimSpace(c); c != "" {
			categories = append(categories, c)
		}
	}

	genCfg, err := types.NewGenerationConfig(genArtifacts, genTemperature,
		cfg.Generation.MaxTokens, categories, seed, model)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	builder := persona.NewBuilder()
	p := builder.Enrich(description, seed)

	fmt.Printf("[+] Persona: %s (%s)\n", p.Name, p.Slug)
	fmt.Printf("[+] Role: %s\n", p.Role)
	fmt.Printf("[+] Company: %s\n", p.Company)

	prov, err := provider.NewGeminiClient(ctx, cfg.Provider.APIKey, model)
	if err != nil {
		return decorateProviderError(err)
	}

	st, err := store.Open(dbPath, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SavePersona(p); err != nil {
		logger.Warn("persona not saved", zap.String("slug", p.Slug), zap.Error(err))
	}

	orch := batch.NewOrchestrator(st, cfg.Provider.MaxParallel, logger)

	fmt.Printf("[*] Generating %d artifacts...\n", genArtifacts)
	artifacts, err := orch.GenerateBatch(ctx, p, genCfg, prov)
	if err != nil {
		return decorateProviderError(err)
	}
	fmt.Printf("[+] Generated %d artifacts\n", len(artifacts))

	persisted, failed := orch.ProcessBatch(artifacts)
	fmt.Printf("[+] Persisted %d artifacts (%d invalid)\n", persisted, failed)

	if genOutput != "" {
		if err := batch.Export(genOutput, artifacts); err != nil {
			return err
		}
		fmt.Printf("[+] Exported to %s\n", genOutput)
	}

	if persisted > 0 {
		fmt.Printf("\n[SUCCESS] Successfully generated persona: %s\n", p.Name)
		fmt.Printf("  Database: %s\n", dbPath)
		fmt.Printf("  Artifacts: %d\n", persisted)
	} else {
		fmt.Printf("\n[WARNING] Persona created but no artifacts persisted\n")
		fmt.Printf("  Persona: %s\n", p.Name)
		fmt.Printf("  Database: %s\n", dbPath)
		fmt.Println("\n  The model may not be available. Try a different one with --model")
	}
	return nil
}

// decorateProviderError appends credential setup guidance when the
// failure is a missing API key.
func decorateProviderError(err error) error {
	if provider.IsAuth(err) {
		return fmt.Errorf("%w\n\n  To generate artifacts, set your API key:\n"+
			"  export GEMINI_API_KEY='your-key-here'\n\n"+
			"  Get your key from: https://ai.google.dev/", err)
	}
	return err
}
