package cmd

import (
	"strings"

	"github.com/madmaxieee/cardtext/internal/cards"
	"github.com/madmaxieee/cardtext/internal/output"
	"github.com/spf13/cobra"
)

var exportFlags struct {
	Input  string
	Output string
}

var exportCmd = &cobra.Command{
	Use:   "export-prompts",
	Short: "Write every black card of a full dataset to a text file",
	Long: `Export-prompts reads a full dataset (a JSON array of packs) and writes the
text of every black card, one per line, with blanks shown as "...".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := runExportPrompts(exportFlags.Input, exportFlags.Output)
		if err != nil {
			return err
		}
		cmd.Printf("Wrote %d prompts to %s\n", n, exportFlags.Output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFlags.Input, "input", "i", "cah-all-full.json", "full dataset JSON file")
	exportCmd.Flags().StringVarP(&exportFlags.Output, "output", "o", "dark_humor_prompts.txt", "output text file")
}

// runExportPrompts returns how many prompts were written.
func runExportPrompts(inputPath, outputPath string) (int, error) {
	packs, err := cards.LoadPacks(inputPath)
	if err != nil {
		return 0, err
	}

	prompts := cards.BlackTexts(packs)
	for i, prompt := range prompts {
		prompts[i] = strings.ReplaceAll(prompt, cards.BlankMarker, "...")
	}

	if err := output.WriteText(outputPath, strings.Join(prompts, "\n")); err != nil {
		return 0, err
	}
	return len(prompts), nil
}
