package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/voicereview/internal/llm"
	"github.com/jonathan/voicereview/internal/observability"
	"github.com/jonathan/voicereview/internal/pipeline"
	"github.com/jonathan/voicereview/internal/voice"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Learn a writing voice from a blog feed",
	Long:  "Fetches posts from an RSS feed, extracts article bodies, and synthesizes a structured style profile describing the author's voice.",
	RunE:  runAnalyze,
}

var (
	analyzeFeedURL    string
	analyzeMaxPosts   int
	analyzeMinLength  int
	analyzeUseBrowser bool
	analyzeHeuristic  bool
	analyzeProfileOut string
	analyzeSamplesOut string
	analyzeAPIKey     string
	analyzeVerbose    bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFeedURL, "feed", "f", "", "RSS feed URL of the blog to analyze (required)")
	analyzeCmd.Flags().IntVar(&analyzeMaxPosts, "max-posts", 0, "Maximum post links to ingest (default 20)")
	analyzeCmd.Flags().IntVar(&analyzeMinLength, "min-length", 0, "Minimum extracted body length (default 200)")
	analyzeCmd.Flags().BoolVar(&analyzeUseBrowser, "browser", false, "Render script-heavy pages with a headless browser")
	analyzeCmd.Flags().BoolVar(&analyzeHeuristic, "heuristic", false, "Use the offline heuristic synthesizer (no API key needed)")
	analyzeCmd.Flags().StringVarP(&analyzeProfileOut, "out", "o", "", "Path to write the style profile JSON (required)")
	analyzeCmd.Flags().StringVar(&analyzeSamplesOut, "samples", "", "Path to write writing samples JSON")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print detailed progress")

	if err := analyzeCmd.MarkFlagRequired("feed"); err != nil {
		panic(fmt.Sprintf("failed to mark feed flag as required: %v", err))
	}
	if err := analyzeCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	var synthesizer voice.Synthesizer
	if analyzeHeuristic {
		synthesizer = voice.NewHeuristic()
	} else {
		apiKey := analyzeAPIKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return fmt.Errorf("API key is required (set GEMINI_API_KEY or use --api-key, or pass --heuristic)")
		}
		client, err := llm.NewClient(ctx, nil, apiKey)
		if err != nil {
			return fmt.Errorf("failed to create generator client: %w", err)
		}
		defer client.Close()
		synthesizer = voice.NewDelegated(client)
	}

	store := &fileStore{
		profilePath: analyzeProfileOut,
		samplesPath: analyzeSamplesOut,
	}

	result, err := pipeline.Analyze(ctx, uuid.Nil, pipeline.AnalyzeOptions{
		FeedURL:     analyzeFeedURL,
		MaxPosts:    analyzeMaxPosts,
		MinLength:   analyzeMinLength,
		UseBrowser:  analyzeUseBrowser,
		Verbose:     analyzeVerbose,
		Synthesizer: synthesizer,
		Store:       store,
	})
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintCorpusSummary(result.Corpus)
	printer.PrintStyleProfile(result.Profile)
	fmt.Printf("Style profile written to %s\n", analyzeProfileOut)
	return nil
}
