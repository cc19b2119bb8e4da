package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/skilltrace/internal/progress"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show a student's mastery report with rollups and grades",
	RunE: func(cmd *cobra.Command, args []string) error {
		graphID, _ := cmd.Flags().GetString("graph")
		studentID, _ := cmd.Flags().GetString("student")
		asJSON, _ := cmd.Flags().GetBool("json")

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		svc := progress.NewService(s, s, s, s, nil)
		report, err := svc.BuildReport(context.Background(), graphID, studentID, time.Now().UTC())
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		printReport(report)
		return nil
	},
}

func printReport(r *progress.StudentReport) {
	fmt.Printf("Mastery report for %s on %s\n\n", r.StudentID, r.GraphID)

	fmt.Printf("%-28s  %7s  %9s  %-8s  %5s\n", "Skill", "Raw", "Effective", "Status", "Grade")
	for _, sk := range r.Skills {
		name := sk.Name
		if name == "" {
			name = sk.SkillID
		}
		fmt.Printf("%-28s  %6.0f%%  %8.0f%%  %-8s  %5s\n",
			name, sk.RawMastery*100, sk.EffectiveMastery*100, sk.Status, sk.Grade.Grade)
	}

	if len(r.Subtopics) > 0 {
		fmt.Printf("\n%-28s  %7s  %7s  %5s\n", "Subtopic", "Mastery", "Done", "Grade")
		for _, st := range r.Subtopics {
			name := st.Name
			if name == "" {
				name = st.ID
			}
			fmt.Printf("%-28s  %6.0f%%  %3d/%-3d  %5s\n",
				name, st.Mastery*100, st.MasteredCount, st.SkillCount, st.Grade.Grade)
		}
	}

	if len(r.Topics) > 0 {
		fmt.Printf("\n%-28s  %7s  %7s  %5s\n", "Topic", "Mastery", "Done", "Grade")
		for _, tp := range r.Topics {
			name := tp.Name
			if name == "" {
				name = tp.ID
			}
			fmt.Printf("%-28s  %6.0f%%  %3d/%-3d  %5s\n",
				name, tp.Mastery*100, tp.MasteredCount, tp.SkillCount, tp.Grade.Grade)
		}
	}

	if r.Ungrouped.SkillCount > 0 {
		fmt.Printf("\nUngrouped: %.0f%% over %d skills (%s)\n",
			r.Ungrouped.Mastery*100, r.Ungrouped.SkillCount, r.Ungrouped.Grade.Grade)
	}
}

func init() {
	reportCmd.Flags().String("graph", "", "Graph ID (required)")
	reportCmd.Flags().String("student", "", "Student ID (required)")
	reportCmd.Flags().Bool("json", false, "Emit the report as JSON")
	reportCmd.MarkFlagRequired("graph")
	reportCmd.MarkFlagRequired("student")
}
