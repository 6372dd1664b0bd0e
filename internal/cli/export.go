package cli

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/neurocorpus/harvest/pkg/harvest/store"
	"github.com/neurocorpus/harvest/pkg/harvest/store/sqlite"
)

func newExportCmd(flags *rootFlags) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the finalized comment dataset as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := sqlite.Open(ctx, flags.dbPath)
			if err != nil {
				return errors.Wrap(err, "open store")
			}
			defer db.Close()

			comments, err := db.Comments(ctx)
			if err != nil {
				return errors.Wrap(err, "read comments")
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return errors.Wrap(err, "create output file")
				}
				defer f.Close()
				w = f
			}

			return store.ExportCommentsJSON(w, comments)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")

	return cmd
}
