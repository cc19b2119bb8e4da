package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/skilltrace/internal/progress"
	"github.com/abhisek/skilltrace/internal/skillgraph"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <graph.json> [graph.json...]",
	Short: "Merge partial knowledge graphs into one canonical graph",
	Long: "Merge unions nodes by id, deduplicates semantically equivalent " +
		"skills, remaps edges and question paths, and recomputes prerequisite " +
		"levels. The merged graph is saved under --graph-id.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		graphID, _ := cmd.Flags().GetString("graph-id")
		name, _ := cmd.Flags().GetString("name")
		outPath, _ := cmd.Flags().GetString("out")

		graphs := make([]skillgraph.KnowledgeGraph, 0, len(args))
		for _, path := range args {
			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			var g skillgraph.KnowledgeGraph
			if err := json.Unmarshal(raw, &g); err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}
			graphs = append(graphs, g)
		}

		merged := skillgraph.Merge(graphs)
		if err := skillgraph.Validate(&merged); err != nil {
			return fmt.Errorf("merged graph is invalid: %w", err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		if err := s.SaveGraph(ctx, graphID, name, &merged); err != nil {
			return fmt.Errorf("save graph: %w", err)
		}

		// Re-derive the skill rows from the merged nodes. Skills that
		// survive the merge keep their subtopic assignment; new ones
		// land ungrouped until the next taxonomy import.
		svc := progress.NewService(s, s, s, s, nil)
		existing, err := svc.LoadTaxonomyInput(ctx, graphID)
		if err != nil {
			return fmt.Errorf("load taxonomy: %w", err)
		}
		if err := svc.ImportTaxonomy(ctx, graphID, &merged, existing); err != nil {
			return fmt.Errorf("save taxonomy: %w", err)
		}

		if outPath != "" {
			raw, err := json.MarshalIndent(&merged, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal merged graph: %w", err)
			}
			if err := os.WriteFile(outPath, append(raw, '\n'), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
		}

		fmt.Printf("Merged %d graphs into %q: %d skills, %d edges.\n",
			len(graphs), graphID, len(merged.Nodes), len(merged.Edges))
		return nil
	},
}

func init() {
	mergeCmd.Flags().String("graph-id", "", "ID to save the merged graph under (required)")
	mergeCmd.Flags().String("name", "", "Human-readable graph name")
	mergeCmd.Flags().String("out", "", "Also write the merged graph JSON to this file")
	mergeCmd.MarkFlagRequired("graph-id")
}
