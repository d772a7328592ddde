package hedera

import (
	"context"

	"sheettochain-backend/internal/domain"
)

// PreparedMint is an unsigned, frozen mint transaction ready for wallet
// signing on the client.
type PreparedMint struct {
	TransactionPayload string `json:"transactionPayload"` // base64 frozen transaction bytes
	TokenID            string `json:"tokenId"`
}

// MintResult is the outcome of a submitted mint.
type MintResult struct {
	TokenID       string `json:"tokenId"`
	SerialNumber  int64  `json:"serialNumber"`
	TransactionID string `json:"transactionId"`
	ExplorerURL   string `json:"explorerUrl"`
}

// Gateway abstracts the Hedera SDK so handlers can be tested with fakes. All
// cryptography, transaction construction, and network submission live behind
// this boundary.
type Gateway interface {
	// Configured reports whether an operator account and key are available.
	Configured() bool
	// PrepareMint freezes an unsigned NFT mint for the collection token and
	// returns its serialized payload.
	PrepareMint(ctx context.Context, meta domain.CSVMetadata, ownerAccountID string) (*PreparedMint, error)
	// SubmitSignedMint signs the payload with the treasury key, executes it,
	// and waits for the receipt.
	SubmitSignedMint(ctx context.Context, payloadB64 string) (*MintResult, error)
	// TransferHbar moves amount HBAR from the operator to the given account
	// and returns the transaction ID once the receipt confirms it.
	TransferHbar(ctx context.Context, toAccountID string, amount float64) (string, error)
}
