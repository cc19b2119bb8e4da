package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete a student's attempts and mastery for a graph",
	RunE: func(cmd *cobra.Command, args []string) error {
		graphID, _ := cmd.Flags().GetString("graph")
		studentID, _ := cmd.Flags().GetString("student")

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		res, err := s.DB().ExecContext(ctx,
			`DELETE FROM attempts WHERE graph_id = ? AND student_id = ?`, graphID, studentID)
		if err != nil {
			return fmt.Errorf("delete attempts: %w", err)
		}
		attempts, _ := res.RowsAffected()

		res, err = s.DB().ExecContext(ctx,
			`DELETE FROM kp_mastery WHERE graph_id = ? AND student_id = ?`, graphID, studentID)
		if err != nil {
			return fmt.Errorf("delete mastery: %w", err)
		}
		masteries, _ := res.RowsAffected()

		fmt.Printf("Deleted %d attempts and %d mastery rows for %s on %s.\n",
			attempts, masteries, studentID, graphID)
		return nil
	},
}

func init() {
	resetCmd.Flags().String("graph", "", "Graph ID (required)")
	resetCmd.Flags().String("student", "", "Student ID (required)")
	resetCmd.MarkFlagRequired("graph")
	resetCmd.MarkFlagRequired("student")
}
