package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/skilltrace/internal/progress"
)

// taxonomyFile is the import format: the grouping levels plus a map
// from skill id to subtopic id.
type taxonomyFile struct {
	Topics []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"topics"`
	Subtopics []struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		TopicID string `json:"topicId"`
	} `json:"subtopics"`
	Skills map[string]string `json:"skills"`
}

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy <taxonomy.json>",
	Short: "Import a subtopic/topic grouping for a graph's skills",
	Long: "Taxonomy replaces a graph's skill grouping from a JSON file with " +
		"topics, subtopics, and a skills map from skill id to subtopic id. " +
		"Skills absent from the map stay ungrouped; map entries for unknown " +
		"skills are ignored.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		graphID, _ := cmd.Flags().GetString("graph-id")

		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		var tf taxonomyFile
		if err := json.Unmarshal(raw, &tf); err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		graph, err := s.LoadGraph(ctx, graphID)
		if err != nil {
			return fmt.Errorf("load graph: %w", err)
		}

		in := progress.TaxonomyInput{SkillSubtopics: tf.Skills}
		for _, t := range tf.Topics {
			in.Topics = append(in.Topics, progress.TopicDef{ID: t.ID, Name: t.Name})
		}
		for _, st := range tf.Subtopics {
			in.Subtopics = append(in.Subtopics, progress.SubtopicDef{ID: st.ID, Name: st.Name, TopicID: st.TopicID})
		}

		svc := progress.NewService(s, s, s, s, nil)
		if err := svc.ImportTaxonomy(ctx, graphID, graph, in); err != nil {
			return fmt.Errorf("import taxonomy: %w", err)
		}

		fmt.Printf("Imported taxonomy for %q: %d skills, %d subtopics, %d topics.\n",
			graphID, len(graph.Nodes), len(in.Subtopics), len(in.Topics))
		return nil
	},
}

func init() {
	taxonomyCmd.Flags().String("graph-id", "", "Graph to import the taxonomy into (required)")
	taxonomyCmd.MarkFlagRequired("graph-id")
}
