package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shanks-ir/argos/internal/analysis"
	"github.com/shanks-ir/argos/internal/config"
	"github.com/shanks-ir/argos/internal/docstore"
	"github.com/shanks-ir/argos/internal/index"
	"github.com/shanks-ir/argos/internal/query"
	"github.com/shanks-ir/argos/internal/run"
	"github.com/shanks-ir/argos/internal/topics"
	"github.com/shanks-ir/argos/internal/ui"
	"github.com/shanks-ir/argos/internal/wordnet"
)

func newSearchCmd(cfg **config.Config) *cobra.Command {
	var (
		topicsFile string
		strategy   string
		runID      string
		runDir     string
		indexDir   string
		wordnetDir string
		maxDocs    int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search all topics and write a run file",
		Long: `Read a TREC topic file, run every topic through the selected
strategy against a previously built index, and write the ranking
to <run_dir>/<run_id>.txt.

Strategies:
  baseline   BM25 over the unexpanded title terms
  1          blended retrieval, language-model rescore (all term pairs)
  2          blended retrieval, language-model rescore (adjacent pairs)
  3          language model, precision-tuned query
  4          blended similarity, precision-tuned query
  5          blended similarity, recall-tuned query`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c := *cfg
			if topicsFile != "" {
				c.Search.TopicsFile = topicsFile
			}
			if strategy != "" {
				c.Search.Strategy = strategy
			}
			if runID != "" {
				c.Search.RunID = runID
			}
			if runDir != "" {
				c.Search.RunDir = runDir
			}
			if indexDir != "" {
				c.Index.Dir = indexDir
			}
			if wordnetDir != "" {
				c.WordNet.Dir = wordnetDir
			}
			if cmd.Flags().Changed("max-docs") {
				c.Search.MaxDocs = maxDocs
			}
			if c.Search.TopicsFile == "" {
				return fmt.Errorf("no topic file (set --topics or search.topics_file)")
			}

			strat, err := run.ParseStrategy(c.Search.Strategy)
			if err != nil {
				return err
			}

			store, err := docstore.Open(filepath.Join(c.Index.Dir, docStoreFile))
			if err != nil {
				return err
			}
			defer store.Close()

			idx, err := index.Load(c.Index.Dir, store)
			if err != nil {
				return err
			}
			slog.Info("index loaded",
				slog.String("dir", c.Index.Dir),
				slog.Int("documents", idx.NumDocs()))

			expander, err := openExpander(c.WordNet.Dir, strat)
			if err != nil {
				return err
			}

			topicList, err := topics.ReadFile(c.Search.TopicsFile)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(c.Search.RunDir, 0o755); err != nil {
				return fmt.Errorf("create run directory: %w", err)
			}
			writer, err := run.CreateRunFile(c.Search.RunDir, c.Search.RunID)
			if err != nil {
				return err
			}
			defer writer.Close()

			searcher, err := run.NewSearcher(idx, query.NewComposer(expander), analysis.New(), writer,
				run.WithMaxDocs(c.Search.MaxDocs),
				run.WithExpectedTopics(c.Search.ExpectedTopics))
			if err != nil {
				return err
			}

			start := time.Now()
			if err := searcher.Run(ctx, topicList, strat); err != nil {
				return err
			}

			if ui.Interactive(cmd.OutOrStdout()) {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s for %d topics in %s\n",
					filepath.Join(c.Search.RunDir, c.Search.RunID+".txt"),
					len(topicList), time.Since(start).Round(time.Millisecond))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&topicsFile, "topics", "", "TREC topic XML file")
	cmd.Flags().StringVar(&strategy, "strategy", "", "Strategy: baseline or 1-5")
	cmd.Flags().StringVar(&runID, "run-id", "", "Run identifier (also the output filename)")
	cmd.Flags().StringVar(&runDir, "run-dir", "", "Directory for run files")
	cmd.Flags().StringVar(&indexDir, "index", "", "Index directory (overrides config)")
	cmd.Flags().StringVar(&wordnetDir, "wordnet", "", "WordNet dict directory")
	cmd.Flags().IntVar(&maxDocs, "max-docs", 0, "Maximum documents per topic")

	return cmd
}

// openExpander opens the WordNet database when the strategy expands
// synonyms. The baseline profile queries literal terms only and runs
// without one.
func openExpander(dir string, strat run.Strategy) (query.SynonymExpander, error) {
	if strat == run.StrategyBaseline {
		return nil, nil
	}
	if dir == "" {
		return nil, fmt.Errorf("strategy %s expands synonyms: set --wordnet or wordnet.dir", strat)
	}
	db, err := wordnet.Open(dir)
	if err != nil {
		return nil, err
	}
	return wordnet.NewExpander(db)
}
