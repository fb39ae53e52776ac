package run

import (
	"testing"

	"gocohort/domain/core"
)

func TestRunFingerprint_Deterministic(t *testing.T) {
	datasetHash := core.DatasetHash("test-dataset")
	batteryHash := core.BatteryHash("test-battery")

	fp1 := NewRunFingerprint(datasetHash, batteryHash, "none", "1.0.0")
	fp2 := NewRunFingerprint(datasetHash, batteryHash, "none", "1.0.0")

	if fp1.Fingerprint != fp2.Fingerprint {
		t.Errorf("Fingerprints not identical: %s vs %s", fp1.Fingerprint, fp2.Fingerprint)
	}
	if fp1.DatasetHash != datasetHash {
		t.Errorf("DatasetHash mismatch: %s vs %s", fp1.DatasetHash, datasetHash)
	}
	if fp1.BatteryHash != batteryHash {
		t.Errorf("BatteryHash mismatch: %s vs %s", fp1.BatteryHash, batteryHash)
	}
}

func TestRunFingerprint_Unique(t *testing.T) {
	base := NewRunFingerprint("d", "b", "none", "1.0.0")

	testCases := []struct {
		name string
		fp   RunFingerprint
	}{
		{"different dataset", NewRunFingerprint("d2", "b", "none", "1.0.0")},
		{"different battery", NewRunFingerprint("d", "b2", "none", "1.0.0")},
		{"different correction", NewRunFingerprint("d", "b", "holm", "1.0.0")},
		{"different code version", NewRunFingerprint("d", "b", "none", "1.0.1")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.fp.Fingerprint == base.Fingerprint {
				t.Errorf("Fingerprint should differ for %s", tc.name)
			}
		})
	}
}

func TestManifest_Validate(t *testing.T) {
	valid := NewManifest(core.NewRunID(), "d", "b", "none", 0.05, "1.0.0")
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid manifest, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(m *Manifest)
	}{
		{"empty run id", func(m *Manifest) { m.RunID = "" }},
		{"empty dataset hash", func(m *Manifest) { m.DatasetHash = "" }},
		{"empty battery hash", func(m *Manifest) { m.BatteryHash = "" }},
		{"empty code version", func(m *Manifest) { m.CodeVersion = "" }},
		{"alpha out of range", func(m *Manifest) { m.Alpha = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := *valid
			tt.mutate(&m)
			if err := m.Validate(); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestManifest_SameInputs(t *testing.T) {
	a := NewManifest(core.NewRunID(), "d", "b", "none", 0.05, "1.0.0")
	b := NewManifest(core.NewRunID(), "d", "b", "none", 0.05, "1.0.0")
	c := NewManifest(core.NewRunID(), "d", "b", "bh", 0.05, "1.0.0")

	if !a.SameInputs(b) {
		t.Errorf("manifests with identical inputs should match")
	}
	if a.SameInputs(c) {
		t.Errorf("manifests with different correction should not match")
	}
}
