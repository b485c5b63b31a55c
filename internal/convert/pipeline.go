// Package convert runs card batches through a text generation service, one
// request at a time.
package convert

import (
	"context"
	"fmt"
	"time"

	"github.com/madmaxieee/cardtext/internal/cards"
	"github.com/madmaxieee/cardtext/internal/proto"
	"github.com/rs/zerolog"
)

const (
	DefaultDelay       = time.Second
	DefaultCooldown    = 5 * time.Second
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2048
)

// Generator is the text generation service. Errors of any kind are treated
// alike: the batch is dropped.
type Generator interface {
	Generate(ctx context.Context, request proto.Request) (string, error)
}

// ProgressFunc is called after each batch with the number of batches done.
type ProgressFunc func(category string, done, total int)

type Pipeline struct {
	gen Generator

	// wait between two batches
	Delay time.Duration
	// extra wait after a failed batch
	Cooldown    time.Duration
	Temperature float64
	MaxTokens   int64

	Sleep    func(ctx context.Context, d time.Duration) error
	Progress ProgressFunc
	Logger   zerolog.Logger
}

func New(gen Generator, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		gen:         gen,
		Delay:       DefaultDelay,
		Cooldown:    DefaultCooldown,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Sleep:       SleepContext,
		Logger:      logger,
	}
}

type BatchError struct {
	Category string
	Index    int
	Err      error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%s batch %d: %v", e.Category, e.Index, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// BatchResult is either the messages parsed from one reply or the reason the
// batch produced nothing.
type BatchResult struct {
	Index    int
	Size     int
	Messages []string
	Err      error
}

func (r BatchResult) OK() bool {
	return r.Err == nil
}

type Result struct {
	Category string
	Items    int
	Batches  []BatchResult
	// messages of every successful batch, in batch order
	Messages []string
}

func (r *Result) Failed() []BatchResult {
	var failed []BatchResult
	for _, b := range r.Batches {
		if !b.OK() {
			failed = append(failed, b)
		}
	}
	return failed
}

// Run converts items in batches of size. Failed batches are logged and
// skipped after a cooldown; they never abort the run. The only errors
// returned are an invalid size and context cancellation, in which case the
// partial result is returned as well.
func (p *Pipeline) Run(ctx context.Context, category Category, items []string, size int) (*Result, error) {
	batches, err := cards.Batch(items, size)
	if err != nil {
		return nil, err
	}

	logger := p.Logger.With().Str("category", category.Name).Logger()
	logger.Info().
		Int("items", len(items)).
		Int("batches", len(batches)).
		Msgf("Converting %d %s cards...", len(items), category.Name)

	result := &Result{
		Category: category.Name,
		Items:    len(items),
		Batches:  make([]BatchResult, 0, len(batches)),
	}

	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		br := p.runBatch(ctx, category, i, batch)
		result.Batches = append(result.Batches, br)

		if br.OK() {
			result.Messages = append(result.Messages, br.Messages...)
			logger.Debug().Int("batch", i).Int("messages", len(br.Messages)).Msg("batch converted")
		} else {
			logger.Error().Err(br.Err).Int("batch", i).Msgf("Error in batch %d", i)
			if err := p.sleep(ctx, p.Cooldown); err != nil {
				return result, err
			}
		}

		if p.Progress != nil {
			p.Progress(category.Name, i+1, len(batches))
		}

		if i < len(batches)-1 {
			if err := p.sleep(ctx, p.Delay); err != nil {
				return result, err
			}
		}
	}

	logger.Info().
		Int("messages", len(result.Messages)).
		Int("failed_batches", len(result.Failed())).
		Msgf("Converted %s cards", category.Name)
	return result, nil
}

func (p *Pipeline) runBatch(ctx context.Context, category Category, index int, batch []string) BatchResult {
	br := BatchResult{Index: index, Size: len(batch)}

	request, err := category.Request(batch, p.Temperature, p.MaxTokens)
	if err != nil {
		br.Err = &BatchError{Category: category.Name, Index: index, Err: err}
		return br
	}

	reply, err := p.gen.Generate(ctx, request)
	if err != nil {
		br.Err = &BatchError{Category: category.Name, Index: index, Err: err}
		return br
	}

	br.Messages = ParseLines(reply)
	return br
}

func (p *Pipeline) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep == nil {
		return SleepContext(ctx, d)
	}
	return p.Sleep(ctx, d)
}

// SleepContext waits for d or until ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
