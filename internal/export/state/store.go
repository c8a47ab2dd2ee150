package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// ExportEntry records the last successful export of one composition.
type ExportEntry struct {
	InputHash  string    `json:"input_hash"`
	ExportedAt time.Time `json:"exported_at"`
	Artifact   string    `json:"artifact"`
	Sidecar    string    `json:"sidecar,omitempty"`
	Engine     string    `json:"engine"`
	ElapsedS   float64   `json:"elapsed_s"`
}

// ExportState is the artifact bookkeeping kept under the project's meta
// directory. It is not a save file: editor state is never restored from it.
type ExportState struct {
	SettingsHash string                 `json:"settings_hash"`
	Exports      map[string]ExportEntry `json:"exports"`
}

// Load reads export state from the given path. A missing or corrupt file
// returns an empty state without error.
func Load(path string) (*ExportState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return emptyState(), nil
	}

	var es ExportState
	if err := json.Unmarshal(data, &es); err != nil {
		return emptyState(), nil
	}

	if es.Exports == nil {
		es.Exports = map[string]ExportEntry{}
	}
	return &es, nil
}

// Save writes the export state atomically to the given path.
func (es *ExportState) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(es, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

// Record stores a successful export.
func (es *ExportState) Record(in Inputs, entry ExportEntry) {
	if es.Exports == nil {
		es.Exports = map[string]ExportEntry{}
	}
	es.SettingsHash = SettingsHash(in.Settings)
	entry.InputHash = CompositionHash(in)
	es.Exports[in.Key()] = entry
}

func emptyState() *ExportState {
	return &ExportState{
		Exports: map[string]ExportEntry{},
	}
}
