// Package cache keeps a summary of the last convert run under the XDG cache
// directory.
package cache

import (
	"encoding/json"
	"os"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
)

type RunData struct {
	ID            string
	StartedAt     time.Time
	FinishedAt    time.Time
	Model         string
	EstimatedCost float64
	Categories    []CategoryRun
}

type CategoryRun struct {
	Name          string
	Items         int
	Batches       int
	FailedBatches []int
	Messages      int
	Output        string
	WriteError    string `json:",omitempty"`
}

func NewRunData(model string, estimatedCost float64) *RunData {
	return &RunData{
		ID:            uuid.NewString(),
		StartedAt:     time.Now().UTC(),
		Model:         model,
		EstimatedCost: estimatedCost,
	}
}

func getLastRunDataPath() (string, error) {
	return xdg.CacheFile("cardtext/last_run.json")
}

func GetLastRunData() (*RunData, error) {
	path, err := getLastRunDataPath()
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var runData RunData
	err = json.Unmarshal(content, &runData)
	if err != nil {
		return nil, err
	}
	return &runData, nil
}

func SaveRunData(runData *RunData) error {
	if runData == nil {
		return nil
	}
	path, err := getLastRunDataPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(runData, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
