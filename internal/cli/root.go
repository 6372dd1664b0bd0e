// Package cli wires the pipeline components into the harvest command line:
// configuration loading, credential resolution from the environment, and the
// collect, serve and export subcommands.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/neurocorpus/harvest/internal/reddit"
	"github.com/neurocorpus/harvest/internal/zeroshot"
	"github.com/neurocorpus/harvest/pkg/harvest"
	"github.com/neurocorpus/harvest/pkg/harvest/classify"
	"github.com/neurocorpus/harvest/pkg/harvest/config"
)

type rootFlags struct {
	configPath string
	dbPath     string
	verbose    bool
}

// NewRootCmd builds the harvest command tree.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "harvest",
		Short:         "Collect, filter and classify community posts into research datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "study configuration file (YAML)")
	root.PersistentFlags().StringVar(&flags.dbPath, "db", "harvest.db", "sqlite database path")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "verbose logging")

	viper.AutomaticEnv()

	root.AddCommand(newCollectCmd(flags))
	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newExportCmd(flags))

	return root
}

func buildLogger(verbose bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

func loadStudy(path string) (*config.Study, error) {
	if path == "" {
		return &config.Study{}, nil
	}
	return config.LoadStudy(path)
}

// credentialsFromEnv reads the content API credentials. Missing values are
// tolerated here; the connector reports ErrNotInitialized on first use.
func credentialsFromEnv() reddit.Credentials {
	return reddit.Credentials{
		ClientID:     viper.GetString("REDDIT_CLIENT_ID"),
		ClientSecret: viper.GetString("REDDIT_CLIENT_SECRET"),
		Username:     viper.GetString("REDDIT_USERNAME"),
		Password:     viper.GetString("REDDIT_PASSWORD"),
		UserAgent:    viper.GetString("REDDIT_USER_AGENT"),
	}
}

// classifierFromEnv returns a zero-shot classifier when an endpoint is
// configured, nil otherwise. A nil classifier degrades every outcome to
// unavailable instead of failing the run.
func classifierFromEnv() classify.Classifier {
	baseURL := viper.GetString("ZEROSHOT_URL")
	if baseURL == "" {
		return nil
	}
	return &zeroshot.Client{
		BaseURL: baseURL,
		APIKey:  viper.GetString("ZEROSHOT_API_KEY"),
	}
}

func harvesterOptions(study *config.Study, log *zap.SugaredLogger) harvest.Options {
	return harvest.Options{
		Connector:  reddit.New(credentialsFromEnv()),
		Classifier: classifierFromEnv(),
		Filter:     study.Filter(),
		Logger:     log,
		Labels:     study.Labels,
		Threshold:  study.Threshold,
		CommentCap: study.CommentCap,
		Pacing:     study.Pacing(),
	}
}
