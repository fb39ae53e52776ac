package run

import (
	"crypto/sha256"
	"fmt"

	"gocohort/domain/core"
)

// RunFingerprint ensures deterministic replay
type RunFingerprint struct {
	DatasetHash core.DatasetHash `json:"dataset_hash" yaml:"dataset_hash"`
	BatteryHash core.BatteryHash `json:"battery_hash" yaml:"battery_hash"`
	Correction  string           `json:"correction" yaml:"correction"`
	CodeVersion string           `json:"code_version" yaml:"code_version"`
	Fingerprint core.Hash        `json:"fingerprint" yaml:"fingerprint"` // Hash of all above
}

// NewRunFingerprint creates a fingerprint from determinism parameters
func NewRunFingerprint(datasetHash core.DatasetHash, batteryHash core.BatteryHash,
	correction, codeVersion string) RunFingerprint {

	return RunFingerprint{
		DatasetHash: datasetHash,
		BatteryHash: batteryHash,
		Correction:  correction,
		CodeVersion: codeVersion,
		Fingerprint: computeRunFingerprint(datasetHash, batteryHash, correction, codeVersion),
	}
}

// computeRunFingerprint generates deterministic hash from all determinism parameters
func computeRunFingerprint(datasetHash core.DatasetHash, batteryHash core.BatteryHash,
	correction, codeVersion string) core.Hash {

	data := fmt.Sprintf("dataset:%s|battery:%s|correction:%s|code:%s",
		datasetHash, batteryHash, correction, codeVersion)

	hash := sha256.Sum256([]byte(data))
	return core.Hash(fmt.Sprintf("%x", hash))
}
