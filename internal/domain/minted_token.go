package domain

import "time"

// MintedToken is the externally produced record of a dataset registered as an
// NFT serial on Hedera. The mint flow appends these to the "minted-nfts"
// slot; the marketplace sync pass reads them and never writes them back.
type MintedToken struct {
	TokenID      string       `json:"tokenId"`
	SerialNumber int64        `json:"serialNumber"`
	Metadata     MintMetadata `json:"metadata"`
	Timestamp    *time.Time   `json:"timestamp,omitempty"`
}

// MintMetadata is the metadata blob carried by a minted token. Every field is
// optional; the sync pass substitutes defaults for whatever is missing.
type MintMetadata struct {
	FileName string      `json:"fileName,omitempty"`
	RowCount int         `json:"rowCount,omitempty"`
	Hash     string      `json:"hash,omitempty"`
	Summary  *CSVSummary `json:"summary,omitempty"`
}
