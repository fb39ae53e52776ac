package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Short returns the first 12 hex characters
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// Domain-specific hash types
type (
	DatasetHash Hash
	BatteryHash Hash
	ResultHash  Hash
)

func (h DatasetHash) String() string { return Hash(h).String() }
func (h BatteryHash) String() string { return Hash(h).String() }
func (h ResultHash) String() string  { return Hash(h).String() }

// ComputeDatasetHash hashes rows of key/value cells independent of row and key order
func ComputeDatasetHash(rows []map[string]string) DatasetHash {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var b strings.Builder
		for _, k := range keys {
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(row[k])
			b.WriteByte(';')
		}
		lines = append(lines, b.String())
	}
	sort.Strings(lines)
	return DatasetHash(NewHash([]byte(strings.Join(lines, "\n"))))
}

// ComputeBatteryHash hashes an ordered list of battery entry descriptions
func ComputeBatteryHash(entries []string) BatteryHash {
	var data strings.Builder
	for _, e := range entries {
		data.WriteString(e)
		data.WriteByte('\n')
	}
	return BatteryHash(NewHash([]byte(data.String())))
}

// ComputeResultHash hashes id -> numeric values with full float precision
func ComputeResultHash(values map[string][]float64) ResultHash {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var data strings.Builder
	for _, k := range keys {
		data.WriteString(k)
		for _, v := range values[k] {
			data.WriteString(fmt.Sprintf("|%b", v))
		}
		data.WriteByte('\n')
	}
	return ResultHash(NewHash([]byte(data.String())))
}
