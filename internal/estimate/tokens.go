package estimate

import (
	"context"
	"unicode/utf8"
)

const tokensPerMillion = 1_000_000

// Counter returns the number of tokens in text.
type Counter interface {
	Count(ctx context.Context, text string) (int64, error)
}

// HeuristicCounter approximates tokens from the rune count without calling
// any service. English text averages about four characters per token.
type HeuristicCounter struct {
	CharsPerToken int
}

func (h HeuristicCounter) Count(_ context.Context, text string) (int64, error) {
	cpt := h.CharsPerToken
	if cpt <= 0 {
		cpt = 4
	}
	runes := utf8.RuneCountInString(text)
	return int64((runes + cpt - 1) / cpt), nil
}

// DatasetRates prices a whole dataset pass. Expansion is how much longer the
// rewritten responses are expected to be than the originals.
type DatasetRates struct {
	InputPer1M  float64
	OutputPer1M float64
	Expansion   float64
}

var DefaultDatasetRates = DatasetRates{
	InputPer1M:  3.75,
	OutputPer1M: 15.00,
	Expansion:   1.2,
}

type DatasetReport struct {
	Prompts        int
	Responses      int
	PromptTokens   int64
	ResponseTokens int64
	OutputTokens   int64
	InputCost      float64
	OutputCost     float64
	Total          float64
}

// Dataset counts the tokens of every prompt and response text and prices
// reading all of them plus writing the expanded responses.
func (r DatasetRates) Dataset(ctx context.Context, counter Counter, prompts, responses []string) (DatasetReport, error) {
	report := DatasetReport{Prompts: len(prompts), Responses: len(responses)}

	var err error
	report.PromptTokens, err = sum(ctx, counter, prompts)
	if err != nil {
		return report, err
	}
	report.ResponseTokens, err = sum(ctx, counter, responses)
	if err != nil {
		return report, err
	}

	report.OutputTokens = int64(float64(report.ResponseTokens) * r.Expansion)
	report.InputCost = float64(report.PromptTokens+report.ResponseTokens) / tokensPerMillion * r.InputPer1M
	report.OutputCost = float64(report.OutputTokens) / tokensPerMillion * r.OutputPer1M
	report.Total = report.InputCost + report.OutputCost
	return report, nil
}

func sum(ctx context.Context, counter Counter, texts []string) (int64, error) {
	var total int64
	for _, text := range texts {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := counter.Count(ctx, text)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

type LineStat struct {
	Index  int
	Tokens int64
	Text   string
}

// Lines counts tokens for the first samples lines (all when samples <= 0) and
// returns per-line counts with their average.
func Lines(ctx context.Context, counter Counter, lines []string, samples int) ([]LineStat, float64, error) {
	if samples <= 0 || samples > len(lines) {
		samples = len(lines)
	}

	stats := make([]LineStat, 0, samples)
	var total int64
	for i, line := range lines[:samples] {
		if err := ctx.Err(); err != nil {
			return stats, 0, err
		}
		n, err := counter.Count(ctx, line)
		if err != nil {
			return stats, 0, err
		}
		stats = append(stats, LineStat{Index: i, Tokens: n, Text: line})
		total += n
	}

	if len(stats) == 0 {
		return stats, 0, nil
	}
	return stats, float64(total) / float64(len(stats)), nil
}
