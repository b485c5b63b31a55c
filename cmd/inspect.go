package cmd

import (
	"fmt"
	"io"

	"github.com/madmaxieee/cardtext/internal/cards"
	"github.com/madmaxieee/cardtext/internal/utils"
	"github.com/spf13/cobra"
)

const (
	inspectSamples   = 5
	inspectBlankScan = 20
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Show card counts and samples from a compact dataset",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "cah-all-compact.json"
		if len(args) > 0 {
			path = args[0]
		}
		return runInspect(cmd.OutOrStdout(), path)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(w io.Writer, path string) error {
	dataset, err := cards.Load(path)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, headingStyle.Render("Dataset"), mutedStyle.Render(path))
	fmt.Fprintf(w, "Black cards: %d\n", len(dataset.Black))
	fmt.Fprintf(w, "White cards: %d\n", len(dataset.White))

	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render("Sample black cards"))
	for i, card := range dataset.Black[:min(inspectSamples, len(dataset.Black))] {
		fmt.Fprintf(w, "%d. %s (pick %d)\n", i+1, card.Text, card.Pick)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render("Sample white cards"))
	for i, text := range dataset.White[:min(inspectSamples, len(dataset.White))] {
		fmt.Fprintf(w, "%d. %s\n", i+1, text)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render("Black cards with blanks"))
	for _, card := range dataset.Black[:min(inspectBlankScan, len(dataset.Black))] {
		if n := card.Blanks(); n > 0 {
			fmt.Fprintf(w, "%s %s\n", card.Text, mutedStyle.Render(fmt.Sprintf("(%d %s)", n, utils.Plural(n, "blank"))))
		}
	}
	return nil
}
