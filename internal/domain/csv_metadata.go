package domain

// CSVMetadata describes an uploaded CSV file: shape, integrity hash, and a
// small preview for marketplace cards.
type CSVMetadata struct {
	FileName string     `json:"fileName"`
	RowCount int        `json:"rowCount"` // data rows, header excluded
	Columns  []string   `json:"columns"`
	Preview  []string   `json:"preview,omitempty"`
	Hash     string     `json:"hash"` // hex sha256 of the raw file
	Summary  CSVSummary `json:"summary"`
}

type CSVSummary struct {
	TotalRows    int `json:"totalRows"`
	TotalColumns int `json:"totalColumns"`
}
