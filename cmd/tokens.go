package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/madmaxieee/cardtext/internal/cards"
	"github.com/madmaxieee/cardtext/internal/client"
	"github.com/madmaxieee/cardtext/internal/config"
	"github.com/madmaxieee/cardtext/internal/estimate"
	"github.com/spf13/cobra"
)

type TokensFlags struct {
	Input   string
	Lines   string
	Samples int
	API     bool
	Model   string
}

var tokensFlags TokensFlags

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Count tokens and price a dataset or a text file",
	Long: `Tokens counts the tokens of every card text in a full dataset and prices a
pass that reads all of them and writes slightly longer responses.

With --lines it instead reports the token length of each line of a text file,
for example the output of convert, and their average.

Counting is a local estimate unless --api is given, in which case the
Anthropic token counting endpoint is used.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		counter, err := newCounter(tokensFlags)
		if err != nil {
			return err
		}
		return runTokens(cmd.Context(), cmd.OutOrStdout(), tokensFlags, counter)
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	f := tokensCmd.Flags()
	f.StringVarP(&tokensFlags.Input, "input", "i", "cah-all-full.json", "full dataset JSON file")
	f.StringVar(&tokensFlags.Lines, "lines", "", "text file to measure line by line instead of a dataset")
	f.IntVar(&tokensFlags.Samples, "samples", 1000, "number of lines to measure with --lines (0 for all)")
	f.BoolVar(&tokensFlags.API, "api", false, "count with the Anthropic API instead of estimating locally")
	f.StringVar(&tokensFlags.Model, "model", "claude-sonnet-4-20250514", "Anthropic model used with --api")
}

func newCounter(f TokensFlags) (estimate.Counter, error) {
	if !f.API {
		return estimate.HeuristicCounter{}, nil
	}
	cfg, err := config.EnsureConfig(&flags.ConfigFilePath)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.GetClientOptions("anthropic/" + f.Model)
	if err != nil {
		return nil, err
	}
	return client.NewAnthropicClient(*opts), nil
}

func runTokens(ctx context.Context, w io.Writer, f TokensFlags, counter estimate.Counter) error {
	if f.Lines != "" {
		return runLineTokens(ctx, w, f.Lines, f.Samples, counter)
	}

	packs, err := cards.LoadPacks(f.Input)
	if err != nil {
		return err
	}

	rates := estimate.DefaultDatasetRates
	report, err := rates.Dataset(ctx, counter, cards.BlackTexts(packs), cards.WhiteTexts(packs))
	if err != nil {
		return err
	}

	fmt.Fprintln(w, headingStyle.Render("Token count"))
	fmt.Fprintf(w, "Prompts: %d (%d tokens)\n", report.Prompts, report.PromptTokens)
	fmt.Fprintf(w, "Responses: %d (%d tokens)\n", report.Responses, report.ResponseTokens)
	fmt.Fprintf(w, "Estimated output tokens: %d\n", report.OutputTokens)

	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render("Cost"))
	fmt.Fprintf(w, "Input: $%.2f %s\n", report.InputCost, mutedStyle.Render(fmt.Sprintf("($%.2f / 1M tokens)", rates.InputPer1M)))
	fmt.Fprintf(w, "Output: $%.2f %s\n", report.OutputCost, mutedStyle.Render(fmt.Sprintf("($%.2f / 1M tokens)", rates.OutputPer1M)))
	fmt.Fprintf(w, "Total: $%.2f\n", report.Total)
	return nil
}

func runLineTokens(ctx context.Context, w io.Writer, path string, samples int, counter estimate.Counter) error {
	lines, err := readLines(path)
	if err != nil {
		return err
	}

	stats, average, err := estimate.Lines(ctx, counter, lines, samples)
	if err != nil {
		return err
	}

	for _, stat := range stats {
		fmt.Fprintf(w, "Sample %d (%d tokens): %s\n", stat.Index+1, stat.Tokens, stat.Text)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %.2f tokens over %d lines\n", headingStyle.Render("Average sequence length:"), average, len(stats))
	return nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
