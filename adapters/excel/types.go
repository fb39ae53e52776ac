package excel

// RawRowData represents a row of raw Excel data as string cells in header order
type RawRowData []string

// ExcelData represents the complete Excel dataset
type ExcelData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}
