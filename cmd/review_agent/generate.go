package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/voicereview/internal/llm"
	"github.com/jonathan/voicereview/internal/review"
	"github.com/jonathan/voicereview/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a review in the learned voice",
	Long:  "Reads visit facts from a JSON file and streams a generated review to stdout, written in the voice described by the style profile.",
	RunE:  runGenerate,
}

var (
	generateFactsFile   string
	generateProfileFile string
	generateSamplesFile string
	generateOutputDir   string
	generateAPIKey      string
)

func init() {
	generateCmd.Flags().StringVarP(&generateFactsFile, "facts", "i", "", "Path to visit facts JSON file (required)")
	generateCmd.Flags().StringVarP(&generateProfileFile, "profile", "p", "", "Path to style profile JSON file (required)")
	generateCmd.Flags().StringVar(&generateSamplesFile, "samples", "", "Path to writing samples JSON file")
	generateCmd.Flags().StringVarP(&generateOutputDir, "out", "o", "", "Directory to save the finished review")
	generateCmd.Flags().StringVar(&generateAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")

	if err := generateCmd.MarkFlagRequired("facts"); err != nil {
		panic(fmt.Sprintf("failed to mark facts flag as required: %v", err))
	}
	if err := generateCmd.MarkFlagRequired("profile"); err != nil {
		panic(fmt.Sprintf("failed to mark profile flag as required: %v", err))
	}

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	data, err := os.ReadFile(generateFactsFile)
	if err != nil {
		return fmt.Errorf("failed to read facts file: %w", err)
	}
	var req types.GenerationRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("failed to parse facts JSON: %w", err)
	}

	client, err := newCLIClient(ctx, generateAPIKey)
	if err != nil {
		return err
	}
	defer client.Close()

	store := &fileStore{
		profilePath: generateProfileFile,
		samplesPath: generateSamplesFile,
		reviewsDir:  generateOutputDir,
	}
	service := review.NewService(store, client)

	_, err = service.Generate(ctx, uuid.Nil, &req, func(delta string) {
		fmt.Print(delta)
	})
	fmt.Println()
	return err
}

func newCLIClient(ctx context.Context, flagKey string) (llm.Client, error) {
	apiKey := flagKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
	}
	client, err := llm.NewClient(ctx, nil, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator client: %w", err)
	}
	return client, nil
}
