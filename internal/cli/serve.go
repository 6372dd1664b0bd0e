package cli

import (
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/neurocorpus/harvest/internal/server"
	"github.com/neurocorpus/harvest/pkg/harvest"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive preview API",
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

			h := harvest.New(harvesterOptions(study, log))
			srv := &http.Server{
				Addr:              addr,
				Handler:           server.New(h, log).Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			log.Infow("serving preview API", "addr", addr)
			return srv.ListenAndServe()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}
