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
	"github.com/shanks-ir/argos/internal/ui"
)

// docStoreFile is the document store filename inside the index directory.
const docStoreFile = "docs.db"

func newIndexCmd(cfg **config.Config) *cobra.Command {
	var (
		corpusDir string
		indexDir  string
		workers   int
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the inverted index from a corpus directory",
		Long: `Parse every args.me JSON file in the corpus directory and build
the positional inverted index plus the document store under the
index directory. An existing index is replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c := *cfg
			if corpusDir != "" {
				c.Index.CorpusDir = corpusDir
			}
			if indexDir != "" {
				c.Index.Dir = indexDir
			}
			if cmd.Flags().Changed("workers") {
				c.Index.Workers = workers
			}
			if c.Index.CorpusDir == "" {
				return fmt.Errorf("no corpus directory (set --corpus or index.corpus_dir)")
			}

			if err := os.MkdirAll(c.Index.Dir, 0o755); err != nil {
				return fmt.Errorf("create index directory: %w", err)
			}

			store, err := docstore.Open(filepath.Join(c.Index.Dir, docStoreFile))
			if err != nil {
				return err
			}
			defer store.Close()

			builder, err := index.NewBuilder(analysis.New(), store, slog.Default())
			if err != nil {
				return err
			}

			start := time.Now()
			idx, err := builder.Build(ctx, c.Index.CorpusDir, c.Index.Dir, c.Index.Workers)
			if err != nil {
				return err
			}
			slog.Info("index built",
				slog.Int("documents", idx.NumDocs()),
				slog.Int("duplicates_skipped", builder.DuplicatesSkipped()),
				slog.Duration("elapsed", time.Since(start)))

			if ui.Interactive(cmd.OutOrStdout()) {
				fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d documents (%d duplicates skipped) in %s\n",
					idx.NumDocs(), builder.DuplicatesSkipped(), time.Since(start).Round(time.Millisecond))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&corpusDir, "corpus", "", "Corpus directory with args.me JSON files")
	cmd.Flags().StringVar(&indexDir, "index", "", "Index directory (overrides config)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent corpus parsers (0 = NumCPU)")

	return cmd
}
