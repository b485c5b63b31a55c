// Package estimate computes rough API cost estimates before any request is
// made. The numbers are heuristics, not metered usage.
package estimate

const tokensPerUnit = 1000

// Rates holds prices per 1K tokens and the per-item token guesses used to
// estimate a conversion run.
type Rates struct {
	InputPer1K  float64
	OutputPer1K float64

	BlackInputTokens  int
	BlackOutputTokens int
	WhiteInputTokens  int
	WhiteOutputTokens int

	// instruction overhead charged once per request
	SystemTokens int
}

// DefaultRates are GPT-4o prices at the time the estimates were tuned.
var DefaultRates = Rates{
	InputPer1K:        0.01,
	OutputPer1K:       0.03,
	BlackInputTokens:  30,
	BlackOutputTokens: 50,
	WhiteInputTokens:  10,
	WhiteOutputTokens: 30,
	SystemTokens:      300,
}

type Breakdown struct {
	BlackBatches int
	WhiteBatches int
	InputTokens  int
	OutputTokens int
	InputCost    float64
	OutputCost   float64
	Total        float64
}

// Batches is the number of requests needed for n items at size per request.
func Batches(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

func (r Rates) Estimate(black, white, blackBatchSize, whiteBatchSize int) Breakdown {
	black = max(black, 0)
	white = max(white, 0)

	b := Breakdown{
		BlackBatches: Batches(black, blackBatchSize),
		WhiteBatches: Batches(white, whiteBatchSize),
	}

	b.InputTokens = b.BlackBatches*r.SystemTokens +
		black*r.BlackInputTokens +
		b.WhiteBatches*r.SystemTokens +
		white*r.WhiteInputTokens

	b.OutputTokens = black*r.BlackOutputTokens +
		white*r.WhiteOutputTokens

	b.InputCost = float64(b.InputTokens) / tokensPerUnit * r.InputPer1K
	b.OutputCost = float64(b.OutputTokens) / tokensPerUnit * r.OutputPer1K
	b.Total = b.InputCost + b.OutputCost
	return b
}

// Cost estimates a conversion run in USD with DefaultRates.
func Cost(black, white, blackBatchSize, whiteBatchSize int) float64 {
	return DefaultRates.Estimate(black, white, blackBatchSize, whiteBatchSize).Total
}
