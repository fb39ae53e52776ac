package run

import (
	"fmt"

	"gocohort/domain/core"
)

// Manifest identifies the run that produced a report.
// ResultHash is filled in once every record has been aggregated.
type Manifest struct {
	RunID       core.RunID       `json:"run_id" yaml:"run_id"`
	DatasetHash core.DatasetHash `json:"dataset_hash" yaml:"dataset_hash"`
	BatteryHash core.BatteryHash `json:"battery_hash" yaml:"battery_hash"`
	ResultHash  core.ResultHash  `json:"result_hash" yaml:"result_hash"`
	Correction  string           `json:"correction" yaml:"correction"`
	Alpha       float64          `json:"alpha" yaml:"alpha"`
	CodeVersion string           `json:"code_version" yaml:"code_version"`
	Fingerprint RunFingerprint   `json:"fingerprint" yaml:"fingerprint"`
	CreatedAt   core.Timestamp   `json:"created_at" yaml:"created_at"`
}

// NewManifest creates a run manifest before any battery entry executes
func NewManifest(
	runID core.RunID,
	datasetHash core.DatasetHash,
	batteryHash core.BatteryHash,
	correction string,
	alpha float64,
	codeVersion string,
) *Manifest {
	return &Manifest{
		RunID:       runID,
		DatasetHash: datasetHash,
		BatteryHash: batteryHash,
		Correction:  correction,
		Alpha:       alpha,
		CodeVersion: codeVersion,
		Fingerprint: NewRunFingerprint(datasetHash, batteryHash, correction, codeVersion),
		CreatedAt:   core.Now(),
	}
}

// Validate checks if the manifest is complete
func (m *Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return fmt.Errorf("run manifest: run_id cannot be empty")
	}
	if m.DatasetHash == "" {
		return fmt.Errorf("run manifest: dataset_hash cannot be empty")
	}
	if m.BatteryHash == "" {
		return fmt.Errorf("run manifest: battery_hash cannot be empty")
	}
	if m.CodeVersion == "" {
		return fmt.Errorf("run manifest: code_version cannot be empty")
	}
	if m.Alpha <= 0 || m.Alpha >= 1 {
		return fmt.Errorf("run manifest: alpha must be in (0,1), got %g", m.Alpha)
	}
	return nil
}

// SameInputs reports whether two manifests describe replays of the same run
func (m *Manifest) SameInputs(other *Manifest) bool {
	return m.Fingerprint.Fingerprint == other.Fingerprint.Fingerprint
}
