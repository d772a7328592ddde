package hedera

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"sheettochain-backend/internal/domain"

	sdk "github.com/hashgraph/hedera-sdk-go/v2"
	"github.com/rs/zerolog/log"
)

// Hedera rejects NFT metadata above 100 bytes, so minted metadata is the
// compact {h, r, c} projection of the CSV metadata.
const maxMetadataBytes = 100

var (
	ErrNotConfigured     = errors.New("hedera: treasury account not configured")
	ErrNoCollectionToken = errors.New("hedera: collection token not configured")
	ErrMetadataTooLarge  = errors.New("hedera: metadata exceeds 100 byte limit")
)

// Client is the real Gateway over the Hedera Go SDK.
type Client struct {
	Network        string // testnet | mainnet | previewnet
	AccountID      string // treasury/operator
	PrivateKey     string
	DatasetTokenID string // pre-created NFT collection
}

func (c *Client) Configured() bool {
	return c != nil && c.AccountID != "" && c.PrivateKey != ""
}

func (c *Client) newClient() *sdk.Client {
	switch c.Network {
	case "mainnet":
		return sdk.ClientForMainnet()
	case "previewnet":
		return sdk.ClientForPreviewnet()
	default:
		return sdk.ClientForTestnet()
	}
}

// parsePrivateKey tries the generic parser first, then the explicit Ed25519
// and ECDSA formats, matching how treasury keys show up in the wild
// (DER-encoded, raw hex, with or without a 0x prefix).
func parsePrivateKey(raw string) (sdk.PrivateKey, error) {
	if key, err := sdk.PrivateKeyFromString(raw); err == nil {
		return key, nil
	}
	if key, err := sdk.PrivateKeyFromStringEd25519(raw); err == nil {
		return key, nil
	}
	key, err := sdk.PrivateKeyFromStringECDSA(raw)
	if err != nil {
		return sdk.PrivateKey{}, fmt.Errorf("could not parse private key in any format: %w", err)
	}
	return key, nil
}

func (c *Client) PrepareMint(ctx context.Context, meta domain.CSVMetadata, ownerAccountID string) (*PreparedMint, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if c.DatasetTokenID == "" {
		return nil, ErrNoCollectionToken
	}
	if _, err := sdk.AccountIDFromString(ownerAccountID); err != nil {
		return nil, fmt.Errorf("invalid owner account ID: %w", err)
	}
	operatorID, err := sdk.AccountIDFromString(c.AccountID)
	if err != nil {
		return nil, fmt.Errorf("invalid treasury account ID: %w", err)
	}
	tokenID, err := sdk.TokenIDFromString(c.DatasetTokenID)
	if err != nil {
		return nil, fmt.Errorf("invalid collection token ID: %w", err)
	}

	hash := meta.Hash
	if len(hash) > 12 {
		hash = hash[:12]
	}
	metadataBytes, err := json.Marshal(map[string]interface{}{
		"h": hash,
		"r": meta.RowCount,
		"c": len(meta.Columns),
	})
	if err != nil {
		return nil, err
	}
	if len(metadataBytes) > maxMetadataBytes {
		return nil, ErrMetadataTooLarge
	}

	client := c.newClient()
	defer func() { _ = client.Close() }()

	// The operator is intentionally NOT set: the payload must stay unsigned
	// so the owner wallet can sign it first. The treasury pays, so the
	// transaction ID is generated against the treasury account.
	mintTx := sdk.NewTokenMintTransaction().
		SetTokenID(tokenID).
		SetMetadatas([][]byte{metadataBytes}).
		SetTransactionMemo("CSV: " + meta.FileName).
		SetMaxTransactionFee(sdk.NewHbar(20)).
		SetTransactionID(sdk.TransactionIDGenerate(operatorID))

	frozen, err := mintTx.FreezeWith(client)
	if err != nil {
		return nil, fmt.Errorf("failed to freeze mint transaction: %w", err)
	}
	txBytes, err := frozen.ToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize mint transaction: %w", err)
	}

	log.Info().
		Str("token_id", c.DatasetTokenID).
		Str("file", meta.FileName).
		Str("owner", ownerAccountID).
		Msg("Unsigned mint transaction prepared")

	return &PreparedMint{
		TransactionPayload: base64.StdEncoding.EncodeToString(txBytes),
		TokenID:            c.DatasetTokenID,
	}, nil
}

func (c *Client) SubmitSignedMint(ctx context.Context, payloadB64 string) (*MintResult, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	operatorKey, err := parsePrivateKey(c.PrivateKey)
	if err != nil {
		return nil, err
	}
	operatorID, err := sdk.AccountIDFromString(c.AccountID)
	if err != nil {
		return nil, fmt.Errorf("invalid treasury account ID: %w", err)
	}

	raw, err := base64.StdEncoding.DecodeString(payloadB64)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction payload: %w", err)
	}
	// Do not re-freeze: the payload was frozen in PrepareMint with its final
	// transaction ID, and re-freezing would invalidate the wallet signature.
	decoded, err := sdk.TransactionFromBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode transaction: %w", err)
	}
	mintTx, ok := decoded.(sdk.TokenMintTransaction)
	if !ok {
		return nil, errors.New("payload is not a token mint transaction")
	}

	client := c.newClient()
	defer func() { _ = client.Close() }()
	client.SetOperator(operatorID, operatorKey)

	signed := mintTx.Sign(operatorKey)
	resp, err := signed.Execute(client)
	if err != nil {
		return nil, fmt.Errorf("failed to execute mint transaction: %w", err)
	}
	receipt, err := resp.GetReceipt(client)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch mint receipt: %w", err)
	}
	if receipt.Status != sdk.StatusSuccess {
		return nil, fmt.Errorf("mint transaction failed with status %s", receipt.Status.String())
	}

	var serial int64
	if len(receipt.SerialNumbers) > 0 {
		serial = receipt.SerialNumbers[0]
	}
	txID := resp.TransactionID.String()

	log.Info().
		Str("token_id", c.DatasetTokenID).
		Int64("serial", serial).
		Str("transaction_id", txID).
		Msg("Mint transaction successful")

	return &MintResult{
		TokenID:       c.DatasetTokenID,
		SerialNumber:  serial,
		TransactionID: txID,
		ExplorerURL:   c.explorerURL(txID),
	}, nil
}

func (c *Client) TransferHbar(ctx context.Context, toAccountID string, amount float64) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	operatorKey, err := parsePrivateKey(c.PrivateKey)
	if err != nil {
		return "", err
	}
	operatorID, err := sdk.AccountIDFromString(c.AccountID)
	if err != nil {
		return "", fmt.Errorf("invalid treasury account ID: %w", err)
	}
	toID, err := sdk.AccountIDFromString(toAccountID)
	if err != nil {
		return "", fmt.Errorf("invalid recipient account ID: %w", err)
	}

	client := c.newClient()
	defer func() { _ = client.Close() }()
	client.SetOperator(operatorID, operatorKey)

	frozen, err := sdk.NewTransferTransaction().
		AddHbarTransfer(operatorID, sdk.NewHbar(-amount)).
		AddHbarTransfer(toID, sdk.NewHbar(amount)).
		SetMaxTransactionFee(sdk.NewHbar(2)).
		FreezeWith(client)
	if err != nil {
		return "", fmt.Errorf("failed to freeze transfer: %w", err)
	}
	resp, err := frozen.Sign(operatorKey).Execute(client)
	if err != nil {
		return "", fmt.Errorf("failed to execute transfer: %w", err)
	}
	receipt, err := resp.GetReceipt(client)
	if err != nil {
		return "", fmt.Errorf("failed to fetch transfer receipt: %w", err)
	}
	if receipt.Status != sdk.StatusSuccess {
		return "", fmt.Errorf("transfer failed with status %s", receipt.Status.String())
	}

	txID := resp.TransactionID.String()
	log.Info().
		Str("to", toAccountID).
		Float64("amount_hbar", amount).
		Str("transaction_id", txID).
		Msg("HBAR transfer completed")
	return txID, nil
}

func (c *Client) explorerURL(txID string) string {
	if c.Network == "mainnet" {
		return "https://hashscan.io/tx/" + txID
	}
	return "https://hashscan.io/testnet/tx/" + txID
}
