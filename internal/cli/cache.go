package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/ppiankov/reviewlens/internal/cache"
	"github.com/spf13/cobra"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and clean the word cloud cache",
	Long: `Rendered word clouds are cached on disk (cache.dir) keyed by dataset
fingerprint, company and canvas settings. Entries for a dataset that has
since changed are never read again and can be pruned once they expire.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show disk cache usage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		disk, dir, err := diskCache()
		if err != nil {
			return err
		}

		st, err := disk.Stats()
		if err != nil {
			return fmt.Errorf("read cache: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "  Directory: %s\n", dir)
		fmt.Fprintf(out, "  Entries:   %s (%s expired)\n", humanize.Comma(int64(st.Entries)), humanize.Comma(int64(st.Expired)))
		fmt.Fprintf(out, "  Size:      %s\n", humanize.Bytes(uint64(st.Bytes)))
		return nil
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove expired disk cache entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		disk, _, err := diskCache()
		if err != nil {
			return err
		}

		removed, err := disk.Prune()
		if err != nil {
			return fmt.Errorf("prune cache: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %d entries (%s)\n", removed.Entries, humanize.Bytes(uint64(removed.Bytes)))
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the whole disk cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		disk, dir, err := diskCache()
		if err != nil {
			return err
		}

		if err := disk.Clear(); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Cleared %s\n", dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cachePruneCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

// diskCache opens the configured disk cache without loading the dataset
func diskCache() (*cache.DiskCache, string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, "", err
	}
	if cfg.Cache.Dir == "" {
		return nil, "", fmt.Errorf("no cache directory configured (cache.dir)")
	}
	return cache.NewDiskCache(cfg.Cache.Dir, cfg.Cache.DiskTTL), cfg.Cache.Dir, nil
}
