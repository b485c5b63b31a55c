package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/madmaxieee/cardtext/internal/cache"
	"github.com/stretchr/testify/assert"
)

func TestPrintRun(t *testing.T) {
	started := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	run := &cache.RunData{
		ID:            "4b1c7d2e-0000-4000-8000-000000000000",
		StartedAt:     started,
		FinishedAt:    started.Add(95 * time.Second),
		Model:         "openai/gpt-4o",
		EstimatedCost: 1.234,
		Categories: []cache.CategoryRun{
			{Name: "black", Items: 12, Batches: 2, FailedBatches: []int{1}, Messages: 9, Output: "text_prompts.txt"},
			{Name: "white", Items: 20, Batches: 1, Messages: 20, Output: "text_responses.txt", WriteError: "permission denied"},
		},
	}

	var out bytes.Buffer
	printRun(&out, run)

	got := out.String()
	assert.Contains(t, got, "Run 4b1c7d2e-0000-4000-8000-000000000000")
	assert.Contains(t, got, "openai/gpt-4o")
	assert.Contains(t, got, "(1m35s)")
	assert.Contains(t, got, "Estimated cost: $1.23")
	assert.Contains(t, got, "black: 12 cards, 2 batches, 9 messages -> text_prompts.txt")
	assert.Contains(t, got, "failed batches: 1")
	assert.Contains(t, got, "write failed: permission denied")
}

func TestPrintRun_Unfinished(t *testing.T) {
	var out bytes.Buffer
	printRun(&out, &cache.RunData{ID: "x", StartedAt: time.Now()})
	assert.NotContains(t, out.String(), "Finished")
}
