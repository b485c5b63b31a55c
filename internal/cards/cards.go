// Package cards loads card datasets and splits them into batches.
package cards

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	KeyBlack = "black"
	KeyWhite = "white"
)

// BlankMarker marks a blank to be filled in on a black card.
const BlankMarker = "_"

// BlackCard is a prompt card. Pick is how many white cards answer it.
type BlackCard struct {
	Text string `json:"text"`
	Pick int    `json:"pick"`
}

func (c BlackCard) Blanks() int {
	return strings.Count(c.Text, BlankMarker)
}

type WhiteCard struct {
	Text string `json:"text"`
}

// Dataset is the compact format: one object holding every black card and
// every white card text.
type Dataset struct {
	Black []BlackCard
	White []string
}

// Pack is one entry of the full format, a JSON array of packs.
type Pack struct {
	Name  string      `json:"name"`
	Black []BlackCard `json:"black"`
	White []WhiteCard `json:"white"`
}

type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load cards from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads a compact dataset. Both the black and white keys are required.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	blackRaw, err := requireList(raw, KeyBlack)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	whiteRaw, err := requireList(raw, KeyWhite)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var blackCards []struct {
		Text *string `json:"text"`
		Pick *int    `json:"pick"`
	}
	if err := json.Unmarshal(blackRaw, &blackCards); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("key %q: %w", KeyBlack, err)}
	}
	var whiteCards []*string
	if err := json.Unmarshal(whiteRaw, &whiteCards); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("key %q: %w", KeyWhite, err)}
	}

	dataset := &Dataset{
		Black: make([]BlackCard, len(blackCards)),
		White: make([]string, len(whiteCards)),
	}
	for i, card := range blackCards {
		if card.Text == nil || card.Pick == nil {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("black card %d: text and pick are required", i)}
		}
		dataset.Black[i] = BlackCard{Text: *card.Text, Pick: *card.Pick}
	}
	for i, text := range whiteCards {
		if text == nil {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("white card %d is null", i)}
		}
		dataset.White[i] = *text
	}
	return dataset, nil
}

// requireList returns the raw value under key, which must be present and not
// null.
func requireList(raw map[string]json.RawMessage, key string) (json.RawMessage, error) {
	value, ok := raw[key]
	if !ok {
		return nil, fmt.Errorf("missing required key %q", key)
	}
	if string(bytes.TrimSpace(value)) == "null" {
		return nil, fmt.Errorf("key %q is null", key)
	}
	return value, nil
}

// LoadPacks reads the full format. Packs without black or white cards are
// allowed.
func LoadPacks(path string) ([]Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var packs []Pack
	if err := json.Unmarshal(data, &packs); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if packs == nil {
		return nil, &LoadError{Path: path, Err: errors.New("expected a list of packs")}
	}
	return packs, nil
}

func BlackTexts(packs []Pack) []string {
	var texts []string
	for _, pack := range packs {
		for _, card := range pack.Black {
			texts = append(texts, card.Text)
		}
	}
	return texts
}

func WhiteTexts(packs []Pack) []string {
	var texts []string
	for _, pack := range packs {
		for _, card := range pack.White {
			texts = append(texts, card.Text)
		}
	}
	return texts
}
