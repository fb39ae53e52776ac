package survey

// RawTable is an untyped export as read from disk: ordered headers and
// one string cell per header per row
type RawTable struct {
	Source  string
	Headers []string
	Rows    [][]string
}

// Len returns the number of data rows
func (t *RawTable) Len() int { return len(t.Rows) }

// Records returns each row keyed by header
func (t *RawTable) Records() []map[string]string {
	out := make([]map[string]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make(map[string]string, len(t.Headers))
		for j, h := range t.Headers {
			if j < len(row) {
				rec[h] = row[j]
			} else {
				rec[h] = ""
			}
		}
		out[i] = rec
	}
	return out
}
