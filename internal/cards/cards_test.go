package cards

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "cards.json", `{"black":[{"text":"Why did the _ cross the road?","pick":1},{"text":"_ + _ = _.","pick":3}], "white":["a rubber chicken","the IRS"]}`)

	dataset, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []BlackCard{
		{Text: "Why did the _ cross the road?", Pick: 1},
		{Text: "_ + _ = _.", Pick: 3},
	}, dataset.Black)
	assert.Equal(t, []string{"a rubber chicken", "the IRS"}, dataset.White)
}

func TestLoad_EmptyCollections(t *testing.T) {
	path := writeFile(t, "cards.json", `{"black":[], "white":[]}`)

	dataset, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, dataset.Black)
	assert.Empty(t, dataset.White)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content *string
	}{
		{"missing file", nil},
		{"malformed json", ptr(`{"black": [`)},
		{"not an object", ptr(`[1, 2, 3]`)},
		{"missing black", ptr(`{"white": ["x"]}`)},
		{"missing white", ptr(`{"black": []}`)},
		{"wrong black shape", ptr(`{"black": ["x"], "white": []}`)},
		{"wrong white shape", ptr(`{"black": [], "white": [{"text": "x"}]}`)},
		{"null collections", ptr(`{"black": null, "white": null}`)},
		{"null white", ptr(`{"black": [], "white": null}`)},
		{"black card without pick", ptr(`{"black": [{"text": "x _"}], "white": []}`)},
		{"black card without text", ptr(`{"black": [{"pick": 1}], "white": []}`)},
		{"null white card", ptr(`{"black": [], "white": ["x", null]}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "missing.json")
			if tt.content != nil {
				path = writeFile(t, "cards.json", *tt.content)
			}

			dataset, err := Load(path)
			assert.Nil(t, dataset)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr), "expected LoadError, got %v", err)
			assert.Equal(t, path, loadErr.Path)
		})
	}
}

func TestLoad_MissingFileUnwraps(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadPacks(t *testing.T) {
	path := writeFile(t, "full.json", `[
		{"name": "Base", "black": [{"text": "_ is life.", "pick": 1}], "white": [{"text": "Cats"}, {"text": "Dogs"}]},
		{"name": "Whites only", "white": [{"text": "Birds"}]},
		{"name": "Blacks only", "black": [{"text": "What's that smell? _", "pick": 1}]}
	]`)

	packs, err := LoadPacks(path)
	require.NoError(t, err)
	require.Len(t, packs, 3)
	assert.Equal(t, "Base", packs[0].Name)
	assert.Equal(t, []string{"_ is life.", "What's that smell? _"}, BlackTexts(packs))
	assert.Equal(t, []string{"Cats", "Dogs", "Birds"}, WhiteTexts(packs))
}

func TestLoadPacks_Errors(t *testing.T) {
	_, err := LoadPacks(filepath.Join(t.TempDir(), "missing.json"))
	var loadErr *LoadError
	assert.True(t, errors.As(err, &loadErr))

	_, err = LoadPacks(writeFile(t, "compact.json", `{"black": [], "white": []}`))
	assert.True(t, errors.As(err, &loadErr))

	_, err = LoadPacks(writeFile(t, "null.json", `null`))
	assert.True(t, errors.As(err, &loadErr))
}

func TestBlackCard_Blanks(t *testing.T) {
	assert.Equal(t, 0, BlackCard{Text: "What's that smell?"}.Blanks())
	assert.Equal(t, 1, BlackCard{Text: "Why did the _ cross the road?"}.Blanks())
	assert.Equal(t, 3, BlackCard{Text: "_ + _ = _."}.Blanks())
}

func ptr(s string) *string {
	return &s
}
