package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/skilltrace/internal/mastery"
	"github.com/abhisek/skilltrace/internal/progress"
)

var attemptCmd = &cobra.Command{
	Use:   "attempt",
	Short: "Record a student attempt on a question",
	RunE: func(cmd *cobra.Command, args []string) error {
		graphID, _ := cmd.Flags().GetString("graph")
		studentID, _ := cmd.Flags().GetString("student")
		questionID, _ := cmd.Flags().GetString("question")
		correct, _ := cmd.Flags().GetBool("correct")
		atStr, _ := cmd.Flags().GetString("at")

		attemptedAt := time.Now().UTC()
		if atStr != "" {
			parsed, err := time.Parse(time.RFC3339, atStr)
			if err != nil {
				return fmt.Errorf("invalid --at timestamp %q: %w", atStr, err)
			}
			attemptedAt = parsed.UTC()
		}

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		svc := progress.NewService(s, s, s, s, nil)
		id, err := svc.RecordAttempt(context.Background(), mastery.StudentAttempt{
			GraphID:     graphID,
			StudentID:   studentID,
			QuestionID:  questionID,
			IsCorrect:   correct,
			AttemptedAt: attemptedAt,
		})
		if err != nil {
			return err
		}

		outcome := "wrong"
		if correct {
			outcome = "correct"
		}
		fmt.Printf("Recorded %s attempt %s on %s.\n", outcome, id, questionID)
		return nil
	},
}

func init() {
	attemptCmd.Flags().String("graph", "", "Graph ID (required)")
	attemptCmd.Flags().String("student", "", "Student ID (required)")
	attemptCmd.Flags().String("question", "", "Question ID (required)")
	attemptCmd.Flags().Bool("correct", false, "Mark the attempt as correct")
	attemptCmd.Flags().String("at", "", "Attempt time, RFC 3339 (default: now)")
	attemptCmd.MarkFlagRequired("graph")
	attemptCmd.MarkFlagRequired("student")
	attemptCmd.MarkFlagRequired("question")
}
