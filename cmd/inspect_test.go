package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/madmaxieee/cardtext/internal/cards"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInspect(t *testing.T) {
	dir := t.TempDir()
	path := writeDataset(t, dir, "cards.json", `{
  "black": [
    {"text": "Why can't I sleep at night? _", "pick": 1},
    {"text": "No blanks here?", "pick": 1},
    {"text": "_ + _ = _.", "pick": 3}
  ],
  "white": ["A bag of magic beans.", "Flying sex snakes."]
}`)

	var out bytes.Buffer
	require.NoError(t, runInspect(&out, path))

	got := out.String()
	assert.Contains(t, got, "Black cards: 3")
	assert.Contains(t, got, "White cards: 2")
	assert.Contains(t, got, "1. Why can't I sleep at night? _ (pick 1)")
	assert.Contains(t, got, "3. _ + _ = _. (pick 3)")
	assert.Contains(t, got, "2. Flying sex snakes.")
	assert.Contains(t, got, "Why can't I sleep at night? _ (1 blank)")
	assert.Contains(t, got, "_ + _ = _. (3 blanks)")
	assert.NotContains(t, got, "(0 blank")
}

func TestRunInspect_Empty(t *testing.T) {
	path := writeDataset(t, t.TempDir(), "cards.json", `{"black": [], "white": []}`)

	var out bytes.Buffer
	require.NoError(t, runInspect(&out, path))
	assert.Contains(t, out.String(), "Black cards: 0")
}

func TestRunInspect_Missing(t *testing.T) {
	var loadErr *cards.LoadError
	err := runInspect(&bytes.Buffer{}, filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorAs(t, err, &loadErr)
}
