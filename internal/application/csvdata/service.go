package csvdata

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"sheettochain-backend/internal/domain"
)

// maxPreviewColumns caps how many column names go into the listing preview.
const maxPreviewColumns = 5

var ErrEmptyFile = errors.New("csv file is empty")

// Process extracts marketplace metadata from a raw CSV file: column names
// from the header, data row count, a short preview, and a sha256 integrity
// hash over the raw bytes.
func Process(fileName string, data []byte) (*domain.CSVMetadata, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	sum := sha256.Sum256(data)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // tolerate ragged rows

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	columns := make([]string, len(header))
	for i, c := range header {
		columns[i] = trimBOM(c)
	}

	rows := 0
	for {
		_, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", rows+2, err)
		}
		rows++
	}

	preview := columns
	if len(preview) > maxPreviewColumns {
		preview = preview[:maxPreviewColumns]
	}

	return &domain.CSVMetadata{
		FileName: fileName,
		RowCount: rows,
		Columns:  columns,
		Preview:  append([]string(nil), preview...),
		Hash:     hex.EncodeToString(sum[:]),
		Summary: domain.CSVSummary{
			TotalRows:    rows,
			TotalColumns: len(columns),
		},
	}, nil
}

func trimBOM(s string) string {
	if len(s) >= 3 && s[0] == 0xEF && s[1] == 0xBB && s[2] == 0xBF {
		return s[3:]
	}
	return s
}
