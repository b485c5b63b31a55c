package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/madmaxieee/cardtext/internal/cache"
	"github.com/spf13/cobra"
)

var lastCmd = &cobra.Command{
	Use:   "last",
	Short: "Show a summary of the last convert run",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := cache.GetLastRunData()
		if errors.Is(err, fs.ErrNotExist) {
			return errors.New("no convert run recorded yet")
		}
		if err != nil {
			return err
		}
		printRun(cmd.OutOrStdout(), run)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lastCmd)
}

func printRun(w io.Writer, run *cache.RunData) {
	fmt.Fprintln(w, headingStyle.Render("Run "+run.ID), mutedStyle.Render(run.Model))
	fmt.Fprintf(w, "Started:  %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	if !run.FinishedAt.IsZero() {
		fmt.Fprintf(w, "Finished: %s (%s)\n", run.FinishedAt.Local().Format("2006-01-02 15:04:05"), run.FinishedAt.Sub(run.StartedAt).Round(time.Second))
	}
	fmt.Fprintf(w, "Estimated cost: $%.2f\n", run.EstimatedCost)

	for _, c := range run.Categories {
		fmt.Fprintf(w, "%s: %d cards, %d batches, %d messages -> %s\n", c.Name, c.Items, c.Batches, c.Messages, c.Output)
		if len(c.FailedBatches) > 0 {
			indexes := make([]string, len(c.FailedBatches))
			for i, index := range c.FailedBatches {
				indexes[i] = fmt.Sprint(index)
			}
			fmt.Fprintln(w, errorStyle.Render("  failed batches: "+strings.Join(indexes, ", ")))
		}
		if c.WriteError != "" {
			fmt.Fprintln(w, errorStyle.Render("  write failed: "+c.WriteError))
		}
	}
}
