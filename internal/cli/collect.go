package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/neurocorpus/harvest/pkg/harvest"
	"github.com/neurocorpus/harvest/pkg/harvest/store/sqlite"
)

func newCollectCmd(flags *rootFlags) *cobra.Command {
	var (
		mode       string
		containers []string
		terms      []string
	)

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Run the full pipeline and persist the finalized datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := buildLogger(flags.verbose)
			if err != nil {
				return err
			}
			defer log.Sync()

			study, err := loadStudy(flags.configPath)
			if err != nil {
				return errors.Wrap(err, "load study config")
			}
			if len(containers) == 0 {
				containers = study.Containers
			}
			if len(terms) == 0 {
				terms = study.Terms
			}
			if len(containers) == 0 || len(terms) == 0 {
				return errors.New("no containers or search terms configured; use --config or flags")
			}

			limitPerTerm, totalLimit, err := harvest.PresetParams(mode)
			if err != nil {
				return errors.Errorf("unknown mode %q, want test or full", mode)
			}

			ctx := cmd.Context()
			db, err := sqlite.Open(ctx, flags.dbPath)
			if err != nil {
				return errors.Wrap(err, "open store")
			}
			defer db.Close()

			opts := harvesterOptions(study, log)
			opts.Store = db
			h := harvest.New(opts)

			summary, err := h.Run(ctx, harvest.Params{
				Containers:   containers,
				Terms:        terms,
				LimitPerTerm: limitPerTerm,
				TotalLimit:   totalLimit,
			})
			if err != nil {
				return err
			}

			log.Infow("collection run finished",
				"run_id", summary.RunID,
				"collected", summary.Collected,
				"posts_kept", summary.PostsKept,
				"comments_kept", summary.CommentsKept,
				"duplicate_posts", summary.DuplicatePosts,
				"duplicate_comments", summary.DuplicateComments)
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "full", "run mode: test or full")
	cmd.Flags().StringSliceVar(&containers, "containers", nil, "containers to collect from (overrides config)")
	cmd.Flags().StringSliceVar(&terms, "terms", nil, "search terms (overrides config)")

	return cmd
}
