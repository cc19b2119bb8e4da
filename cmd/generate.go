package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/skilltrace/internal/graphgen"
	"github.com/abhisek/skilltrace/internal/llm"
	"github.com/abhisek/skilltrace/internal/progress"
	"github.com/abhisek/skilltrace/internal/skillgraph"
	"github.com/abhisek/skilltrace/internal/store"
)

// questionFile is the input format for generate: a JSON array of
// questions with stable ids.
type questionFile []struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

var generateCmd = &cobra.Command{
	Use:   "generate <questions.json>",
	Short: "Build a knowledge graph from a question bank",
	Long: "Generate sends the questions to the configured model provider in " +
		"batches, merges the partial graphs, and saves the result along with " +
		"the question-to-skill mappings.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		graphID, _ := cmd.Flags().GetString("graph-id")
		name, _ := cmd.Flags().GetString("name")
		courseID, _ := cmd.Flags().GetString("course")
		batchSize, _ := cmd.Flags().GetInt("batch-size")

		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		var qf questionFile
		if err := json.Unmarshal(raw, &qf); err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}
		questions := make([]graphgen.QuestionInput, len(qf))
		for i, q := range qf {
			if q.ID == "" {
				return fmt.Errorf("question %d has no id", i)
			}
			questions[i] = graphgen.QuestionInput{ID: q.ID, Text: q.Text}
		}

		cfg := llm.ConfigFromEnv()
		if err := cfg.Validate(); err != nil {
			discovered, ok := llm.DiscoverConfig()
			if !ok {
				return fmt.Errorf("no usable model provider: %w", err)
			}
			cfg = discovered
		}

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		provider, err := llm.NewProvider(ctx, cfg, s)
		if err != nil {
			return fmt.Errorf("create provider: %w", err)
		}

		gen := graphgen.New(provider, graphgen.Config{BatchSize: batchSize})
		graph, tax, err := gen.Generate(ctx, courseID, questions)
		if err != nil {
			return fmt.Errorf("generate graph: %w", err)
		}
		if err := skillgraph.Validate(graph); err != nil {
			return fmt.Errorf("generated graph is invalid: %w", err)
		}

		if err := s.SaveGraph(ctx, graphID, name, graph); err != nil {
			return fmt.Errorf("save graph: %w", err)
		}

		rows := make([]store.QuestionRow, len(qf))
		for i, q := range qf {
			rows[i] = store.QuestionRow{
				ID:      q.ID,
				GraphID: graphID,
				Text:    q.Text,
				Skills:  graph.QuestionPaths[q.ID].NodeIDs(),
			}
		}
		if err := s.ReplaceQuestions(ctx, graphID, rows); err != nil {
			return fmt.Errorf("save questions: %w", err)
		}

		in := progress.TaxonomyInput{SkillSubtopics: tax.SkillSubtopics}
		for _, t := range tax.Topics {
			in.Topics = append(in.Topics, progress.TopicDef{ID: t.ID, Name: t.Name})
		}
		for _, st := range tax.Subtopics {
			in.Subtopics = append(in.Subtopics, progress.SubtopicDef{ID: st.ID, Name: st.Name, TopicID: st.TopicID})
		}
		svc := progress.NewService(s, s, s, s, nil)
		if err := svc.ImportTaxonomy(ctx, graphID, graph, in); err != nil {
			return fmt.Errorf("save taxonomy: %w", err)
		}

		fmt.Printf("Generated graph %q from %d questions: %d skills, %d edges, %d subtopics, %d topics.\n",
			graphID, len(questions), len(graph.Nodes), len(graph.Edges), len(in.Subtopics), len(in.Topics))
		return nil
	},
}

func init() {
	generateCmd.Flags().String("graph-id", "", "ID to save the graph under (required)")
	generateCmd.Flags().String("name", "", "Human-readable graph name")
	generateCmd.Flags().String("course", "default", "Course ID the questions belong to")
	generateCmd.Flags().Int("batch-size", 0, "Questions per model call (default 8)")
	generateCmd.MarkFlagRequired("graph-id")
}
