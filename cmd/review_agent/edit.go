package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/voicereview/internal/review"
	"github.com/jonathan/voicereview/internal/types"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Revise an existing review",
	Long:  "Applies an edit instruction to an existing review while preserving the learned voice, streaming the revision to stdout.",
	RunE:  runEdit,
}

var (
	editReviewFile  string
	editInstruction string
	editProfileFile string
	editAPIKey      string
)

func init() {
	editCmd.Flags().StringVarP(&editReviewFile, "review", "i", "", "Path to the review text file (required)")
	editCmd.Flags().StringVar(&editInstruction, "instruction", "", "Edit instruction, e.g. 'make it shorter' (required)")
	editCmd.Flags().StringVarP(&editProfileFile, "profile", "p", "", "Path to style profile JSON file (required)")
	editCmd.Flags().StringVar(&editAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")

	if err := editCmd.MarkFlagRequired("review"); err != nil {
		panic(fmt.Sprintf("failed to mark review flag as required: %v", err))
	}
	if err := editCmd.MarkFlagRequired("instruction"); err != nil {
		panic(fmt.Sprintf("failed to mark instruction flag as required: %v", err))
	}
	if err := editCmd.MarkFlagRequired("profile"); err != nil {
		panic(fmt.Sprintf("failed to mark profile flag as required: %v", err))
	}

	rootCmd.AddCommand(editCmd)
}

func runEdit(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	reviewText, err := os.ReadFile(editReviewFile)
	if err != nil {
		return fmt.Errorf("failed to read review file: %w", err)
	}

	client, err := newCLIClient(ctx, editAPIKey)
	if err != nil {
		return err
	}
	defer client.Close()

	store := &fileStore{profilePath: editProfileFile}
	service := review.NewService(store, client)

	req := &types.EditRequest{
		ReviewText:  string(reviewText),
		Instruction: editInstruction,
	}
	_, err = service.Edit(ctx, uuid.Nil, req, func(delta string) {
		fmt.Print(delta)
	})
	fmt.Println()
	return err
}
