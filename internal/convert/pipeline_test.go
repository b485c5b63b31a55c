package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/madmaxieee/cardtext/internal/cards"
	"github.com/madmaxieee/cardtext/internal/proto"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	replies  []string
	failOn   map[int]error
	requests []proto.Request
	onCall   func(call int)
}

func (f *fakeGenerator) Generate(ctx context.Context, request proto.Request) (string, error) {
	call := len(f.requests)
	f.requests = append(f.requests, request)
	if f.onCall != nil {
		f.onCall(call)
	}
	if err, ok := f.failOn[call]; ok {
		return "", err
	}
	if call < len(f.replies) {
		return f.replies[call], nil
	}
	return fmt.Sprintf("reply %d", call), nil
}

type sleepRecorder struct {
	waits []time.Duration
}

func (s *sleepRecorder) Sleep(ctx context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return ctx.Err()
}

func newTestPipeline(gen Generator, logs *bytes.Buffer) (*Pipeline, *sleepRecorder) {
	sleeper := &sleepRecorder{}
	p := New(gen, zerolog.New(logs))
	p.Sleep = sleeper.Sleep
	return p, sleeper
}

func TestPipeline_Run_AllSucceed(t *testing.T) {
	gen := &fakeGenerator{replies: []string{
		"first\n\nsecond\n",
		"  third  \r\n   \n",
		"fourth",
	}}
	var logs bytes.Buffer
	p, sleeper := newTestPipeline(gen, &logs)

	result, err := p.Run(context.Background(), WhiteCategory(), []string{"a", "b", "c", "d", "e"}, 2)
	require.NoError(t, err)

	assert.Len(t, gen.requests, 3)
	assert.Equal(t, []string{"first", "second", "third", "fourth"}, result.Messages)
	assert.Empty(t, result.Failed())
	assert.Equal(t, 5, result.Items)
	require.Len(t, result.Batches, 3)
	assert.Equal(t, 1, result.Batches[2].Size)
	assert.Equal(t, []time.Duration{DefaultDelay, DefaultDelay}, sleeper.waits)
}

func TestPipeline_Run_Empty(t *testing.T) {
	gen := &fakeGenerator{}
	var logs bytes.Buffer
	p, sleeper := newTestPipeline(gen, &logs)

	result, err := p.Run(context.Background(), BlackCategory(), nil, 10)
	require.NoError(t, err)

	assert.Empty(t, gen.requests)
	assert.Empty(t, result.Batches)
	assert.Empty(t, result.Messages)
	assert.Empty(t, sleeper.waits)
}

func TestPipeline_Run_InvalidSize(t *testing.T) {
	gen := &fakeGenerator{}
	var logs bytes.Buffer
	p, _ := newTestPipeline(gen, &logs)

	result, err := p.Run(context.Background(), BlackCategory(), []string{"a"}, 0)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, cards.ErrInvalidBatchSize)
	assert.Empty(t, gen.requests)
}

func TestPipeline_Run_FailedBatchIsDropped(t *testing.T) {
	cause := errors.New("429 rate limited")
	gen := &fakeGenerator{
		replies: []string{"one", "", "three"},
		failOn:  map[int]error{1: cause},
	}
	var logs bytes.Buffer
	p, sleeper := newTestPipeline(gen, &logs)

	result, err := p.Run(context.Background(), BlackCategory(), []string{"a", "b", "c"}, 1)
	require.NoError(t, err)

	assert.Len(t, gen.requests, 3)
	assert.Equal(t, []string{"one", "three"}, result.Messages)

	failed := result.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, 1, failed[0].Index)
	assert.Empty(t, failed[0].Messages)

	var batchErr *BatchError
	require.True(t, errors.As(failed[0].Err, &batchErr))
	assert.Equal(t, "black", batchErr.Category)
	assert.Equal(t, 1, batchErr.Index)
	assert.ErrorIs(t, failed[0].Err, cause)

	// delay after 0, cooldown and delay after 1, nothing after the last
	assert.Equal(t, []time.Duration{DefaultDelay, DefaultCooldown, DefaultDelay}, sleeper.waits)

	assert.Contains(t, logs.String(), "Error in batch 1")
	assert.Contains(t, logs.String(), `"category":"black"`)
	assert.Contains(t, logs.String(), "429 rate limited")
}

func TestPipeline_Run_LastBatchFails(t *testing.T) {
	gen := &fakeGenerator{failOn: map[int]error{1: errors.New("boom")}}
	var logs bytes.Buffer
	p, sleeper := newTestPipeline(gen, &logs)

	result, err := p.Run(context.Background(), WhiteCategory(), []string{"a", "b"}, 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"reply 0"}, result.Messages)
	assert.Equal(t, []time.Duration{DefaultDelay, DefaultCooldown}, sleeper.waits)
}

func TestPipeline_Run_AllFail(t *testing.T) {
	gen := &fakeGenerator{failOn: map[int]error{0: errors.New("down"), 1: errors.New("down")}}
	var logs bytes.Buffer
	p, _ := newTestPipeline(gen, &logs)

	result, err := p.Run(context.Background(), WhiteCategory(), []string{"a", "b", "c"}, 2)
	require.NoError(t, err)
	assert.Empty(t, result.Messages)
	assert.Len(t, result.Failed(), 2)
}

func TestPipeline_Run_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gen := &fakeGenerator{onCall: func(call int) {
		if call == 0 {
			cancel()
		}
	}}
	var logs bytes.Buffer
	p, _ := newTestPipeline(gen, &logs)

	result, err := p.Run(ctx, WhiteCategory(), []string{"a", "b", "c"}, 1)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Len(t, gen.requests, 1)
	assert.Equal(t, []string{"reply 0"}, result.Messages)
}

func TestPipeline_Run_RequestShape(t *testing.T) {
	gen := &fakeGenerator{}
	var logs bytes.Buffer
	p, _ := newTestPipeline(gen, &logs)
	p.Temperature = 0.3
	p.MaxTokens = 512

	items := BlackItems([]cards.BlackCard{
		{Text: "Why did the _ cross the road?", Pick: 1},
		{Text: "_ + _ = _.", Pick: 3},
	})
	_, err := p.Run(context.Background(), BlackCategory(), items, 10)
	require.NoError(t, err)
	require.Len(t, gen.requests, 1)

	req := gen.requests[0]
	require.Len(t, req.Messages, 2)
	assert.Equal(t, proto.RoleSystem, req.Messages[0].Role)
	assert.Equal(t, blackSystemPrompt, req.Messages[0].Content)
	assert.Equal(t, proto.RoleUser, req.Messages[1].Role)
	assert.Equal(t,
		"Please convert these Cards Against Humanity black cards into natural text messages:\n\n"+
			"Card: 'Why did the _ cross the road?' (requires 1 response)\n"+
			"Card: '_ + _ = _.' (requires 3 responses)",
		req.Messages[1].Content)
	require.NotNil(t, req.Temperature)
	assert.Equal(t, 0.3, *req.Temperature)
	require.NotNil(t, req.MaxTokens)
	assert.Equal(t, int64(512), *req.MaxTokens)
}

func TestPipeline_Run_Progress(t *testing.T) {
	gen := &fakeGenerator{failOn: map[int]error{0: errors.New("x")}}
	var logs bytes.Buffer
	p, _ := newTestPipeline(gen, &logs)

	var calls []string
	p.Progress = func(category string, done, total int) {
		calls = append(calls, fmt.Sprintf("%s %d/%d", category, done, total))
	}

	_, err := p.Run(context.Background(), WhiteCategory(), []string{"a", "b", "c"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"white 1/2", "white 2/2"}, calls)
}

func TestPipeline_Run_DoesNotValidateCounts(t *testing.T) {
	// three cards in, one line out: kept as is
	gen := &fakeGenerator{replies: []string{"only one line"}}
	var logs bytes.Buffer
	p, _ := newTestPipeline(gen, &logs)

	result, err := p.Run(context.Background(), WhiteCategory(), []string{"a", "b", "c"}, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"only one line"}, result.Messages)
	assert.Empty(t, result.Failed())
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, SleepContext(context.Background(), 0))
	assert.NoError(t, SleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	assert.ErrorIs(t, SleepContext(ctx, time.Hour), context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestBatchError(t *testing.T) {
	err := &BatchError{Category: "white", Index: 4, Err: errors.New("timeout")}
	assert.Equal(t, "white batch 4: timeout", err.Error())
	assert.True(t, strings.Contains(err.Error(), "4"))
}
