package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const manifestVersion = "1.0.0"

// ItemStatus is the terminal state of one processed work item.
type ItemStatus string

const (
	StatusParsed        ItemStatus = "parsed"
	StatusLowConfidence ItemStatus = "low-confidence"
	StatusFailed        ItemStatus = "failed"
)

// ItemRecord tracks one completed work item.
type ItemRecord struct {
	Identifier  string     `json:"identifier"`
	Status      ItemStatus `json:"status"`
	OutputPath  string     `json:"output_path,omitempty"`
	Reason      string     `json:"reason,omitempty"`
	Anomalies   int        `json:"anomalies,omitempty"`
	ProcessedAt time.Time  `json:"processed_at"`
}

// Manifest tracks which corpus items have been processed, for
// resumability across runs.
type Manifest struct {
	Version   string                 `json:"version"`
	RunID     string                 `json:"run_id"`
	UpdatedAt time.Time              `json:"updated_at"`
	Items     map[string]*ItemRecord `json:"items"`
}

// NewManifest creates an empty manifest with a fresh run identifier.
func NewManifest() *Manifest {
	return &Manifest{
		Version:   manifestVersion,
		RunID:     uuid.NewString(),
		UpdatedAt: time.Now(),
		Items:     make(map[string]*ItemRecord),
	}
}

// LoadManifest reads a manifest from disk, returning a fresh one when
// the file does not exist yet.
func LoadManifest(manifestPath string) (*Manifest, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return NewManifest(), nil
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	manifest := &Manifest{}
	if err := json.Unmarshal(data, manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if manifest.Items == nil {
		manifest.Items = make(map[string]*ItemRecord)
	}
	if manifest.RunID == "" {
		manifest.RunID = uuid.NewString()
	}
	return manifest, nil
}

// Save writes the manifest to disk.
func (manifest *Manifest) Save(manifestPath string) error {
	manifest.UpdatedAt = time.Now()

	if err := os.MkdirAll(filepath.Dir(manifestPath), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// Record stores a completed item's record.
func (manifest *Manifest) Record(record *ItemRecord) {
	record.ProcessedAt = time.Now()
	manifest.Items[record.Identifier] = record
}

// IsDone reports whether an item already has a successful record, so a
// resumed run can skip it. Failed items are retried.
func (manifest *Manifest) IsDone(identifier string) bool {
	record, exists := manifest.Items[identifier]
	return exists && record.Status != StatusFailed
}

// CountByStatus returns the number of items in the given state.
func (manifest *Manifest) CountByStatus(status ItemStatus) int {
	count := 0
	for _, record := range manifest.Items {
		if record.Status == status {
			count++
		}
	}
	return count
}
