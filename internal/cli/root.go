package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/reviewlens/internal/dataset"
	"github.com/ppiankov/reviewlens/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is the reviewlens release
const Version = "v0.3.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "reviewlens",
	Short: "reviewlens - Company review insights dashboard",
	Long: `reviewlens explores precomputed employee-review analytics per company.

For a selected company it shows the company ID, its cluster assignments,
the sentiment distribution of its reviews, a word cloud of its review text
and the top TF-IDF terms saved for its cluster.

The input artifacts (cleaned reviews, company features and cluster terms)
are produced by an upstream analysis step; reviewlens only reads them.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("reviewlens %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.reviewlens/config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Input artifacts
	flags.String("reviews", "", "cleaned reviews CSV")
	flags.String("companies", "", "company features CSV")
	flags.String("terms", "", "cluster terms JSON")
	flags.String("sqlite", "", "read all inputs from this SQLite database instead")
	flags.String("cluster-prefix", "", "prefix of cluster label columns")
	flags.String("terms-column", "", "cluster column used for the terms lookup")

	_ = viper.BindPFlag("output.verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("data.reviews", flags.Lookup("reviews"))
	_ = viper.BindPFlag("data.companies", flags.Lookup("companies"))
	_ = viper.BindPFlag("data.terms", flags.Lookup("terms"))
	_ = viper.BindPFlag("data.sqlite", flags.Lookup("sqlite"))
	_ = viper.BindPFlag("data.cluster_prefix", flags.Lookup("cluster-prefix"))
	_ = viper.BindPFlag("data.terms_column", flags.Lookup("terms-column"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(model.DefaultConfig())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".reviewlens"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// REVIEWLENS_SERVER_ADDR overrides server.addr
	viper.SetEnvPrefix("REVIEWLENS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so env vars and Unmarshal see it.
// Flag defaults are empty and only apply when a flag is set.
func setDefaults(cfg *model.Config) {
	viper.SetDefault("data.reviews", cfg.Data.Reviews)
	viper.SetDefault("data.companies", cfg.Data.Companies)
	viper.SetDefault("data.terms", cfg.Data.Terms)
	viper.SetDefault("data.sqlite", cfg.Data.SQLite)
	viper.SetDefault("data.cluster_prefix", cfg.Data.ClusterPrefix)
	viper.SetDefault("data.terms_column", cfg.Data.TermsColumn)

	viper.SetDefault("server.addr", cfg.Server.Addr)
	viper.SetDefault("server.requests_per_second", cfg.Server.RequestsPerSecond)
	viper.SetDefault("server.burst", cfg.Server.Burst)
	viper.SetDefault("server.shutdown_timeout", cfg.Server.ShutdownTimeout)
	viper.SetDefault("server.max_connections", cfg.Server.MaxConnections)

	viper.SetDefault("cache.enabled", cfg.Cache.Enabled)
	viper.SetDefault("cache.dir", cfg.Cache.Dir)
	viper.SetDefault("cache.memory_ttl", cfg.Cache.MemoryTTL)
	viper.SetDefault("cache.disk_ttl", cfg.Cache.DiskTTL)

	viper.SetDefault("wordcloud.width", cfg.WordCloud.Width)
	viper.SetDefault("wordcloud.height", cfg.WordCloud.Height)
	viper.SetDefault("wordcloud.max_words", cfg.WordCloud.MaxWords)
	viper.SetDefault("wordcloud.min_font_size", cfg.WordCloud.MinFontSize)
	viper.SetDefault("wordcloud.max_font_size", cfg.WordCloud.MaxFontSize)
	viper.SetDefault("wordcloud.background", cfg.WordCloud.Background)
	viper.SetDefault("wordcloud.stopwords", cfg.WordCloud.Stopwords)

	viper.SetDefault("output.verbose", cfg.Output.Verbose)
	viper.SetDefault("output.include_footer", cfg.Output.IncludeFooter)

	viper.SetDefault("concurrency.workers", cfg.Concurrency.Workers)
}

// loadConfig merges defaults, config file, env vars and flags
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// newLogger returns the structured logger used by long-running commands
func newLogger(cfg *model.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Output.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadDataset installs the configured artifacts as the process dataset and
// returns it through dataset.Current
func loadDataset(ctx context.Context, cfg *model.Config) (*dataset.Dataset, error) {
	src := dataset.SourceFromConfig(cfg.Data)

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Loading dataset from %s...\n", src)
	}

	err := dataset.Init(ctx, src, dataset.Options{
		ClusterPrefix: cfg.Data.ClusterPrefix,
		TermsColumn:   cfg.Data.TermsColumn,
	})
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	d := dataset.Current()

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "✓ Loaded %d companies, %d reviews, %d cluster term lists\n",
			len(d.Companies), len(d.Reviews), len(d.Terms))
		fmt.Fprintf(os.Stderr, "✓ Cluster columns: %s\n", strings.Join(d.ClusterColumns, ", "))
		fmt.Fprintln(os.Stderr)
	}

	return d, nil
}
