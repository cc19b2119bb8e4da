package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/abhisek/skilltrace/internal/progress"
)

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Recompute a student's mastery from the full attempt history",
	RunE: func(cmd *cobra.Command, args []string) error {
		graphID, _ := cmd.Flags().GetString("graph")
		studentID, _ := cmd.Flags().GetString("student")

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		svc := progress.NewService(s, s, s, s, nil)
		m, err := svc.Recompute(context.Background(), graphID, studentID)
		if err != nil {
			return err
		}

		skillIDs := make([]string, 0, len(m))
		for id := range m {
			skillIDs = append(skillIDs, id)
		}
		sort.Strings(skillIDs)

		fmt.Printf("%-32s  %8s  %8s  %8s\n", "Skill", "Earned", "Max", "Mastery")
		for _, id := range skillIDs {
			kp := m[id]
			fmt.Printf("%-32s  %8.1f  %8.1f  %7.0f%%\n",
				id, kp.EarnedPoints, kp.MaxPoints, kp.RawMastery*100)
		}
		fmt.Printf("\nRecomputed %d skills for %s on %s.\n", len(m), studentID, graphID)
		return nil
	},
}

func init() {
	recomputeCmd.Flags().String("graph", "", "Graph ID (required)")
	recomputeCmd.Flags().String("student", "", "Student ID (required)")
	recomputeCmd.MarkFlagRequired("graph")
	recomputeCmd.MarkFlagRequired("student")
}
