package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var listCounts bool

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List selectable company names",
	Long: `List prints every distinct company name in first-appearance order, the
same list the dashboard offers.

Example:
  reviewlens list
  reviewlens list --counts`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&listCounts, "counts", false, "include company ID and review count")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := loadDataset(context.Background(), cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, name := range data.Names() {
		if !listCounts {
			fmt.Fprintln(out, name)
			continue
		}

		c, _ := data.CompanyByName(name)
		fmt.Fprintf(out, "%-40s id %-8d %s reviews\n", name, c.ID, humanize.Comma(int64(len(data.ReviewsFor(c.ID)))))
	}

	return nil
}
