package mint

import (
	"errors"
	"strconv"
	"time"

	"sheettochain-backend/internal/application/minted"
	"sheettochain-backend/internal/domain"
	"sheettochain-backend/internal/infrastructure/hedera"
	"sheettochain-backend/internal/infrastructure/mirror"
	"sheettochain-backend/internal/pkg/response"
	"sheettochain-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Gateway hedera.Gateway
	Minted  *minted.Service
	Mirror  *mirror.Client
}

// mintErrStatus maps gateway errors to HTTP status codes.
func mintErrStatus(err error) int {
	switch {
	case errors.Is(err, hedera.ErrNotConfigured), errors.Is(err, hedera.ErrNoCollectionToken):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, hedera.ErrMetadataTooLarge):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusBadGateway
	}
}

type prepareMintBody struct {
	Metadata       domain.CSVMetadata `json:"metadata"`
	OwnerAccountID string             `json:"ownerAccountId"`
}

// POST /api/v1/mint/prepare-mint
//
// Freezes an unsigned mint transaction so the owner's wallet can sign it
// client side. No key material ever reaches this endpoint.
func (h *Handlers) PrepareMint(c *fiber.Ctx) error {
	var body prepareMintBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	if !validation.IsValidAccountID(body.OwnerAccountID) {
		return response.Error(c, "Valid ownerAccountId is required", 400, nil)
	}
	if body.Metadata.Hash == "" {
		return response.Error(c, "metadata.hash is required", 400, nil)
	}

	prepared, err := h.Gateway.PrepareMint(c.Context(), body.Metadata, body.OwnerAccountID)
	if err != nil {
		return response.Error(c, err.Error(), mintErrStatus(err), nil)
	}
	return response.Success(c, "Mint transaction prepared", prepared, nil)
}

type submitMintBody struct {
	TransactionPayload string              `json:"transactionPayload"`
	Metadata           domain.MintMetadata `json:"metadata"`
}

// POST /api/v1/mint/submit-signed-mint
//
// Counter-signs the payload with the treasury key, executes it, and on
// success appends the minted serial to the minted-tokens slot so the next
// marketplace sync picks it up as a listing.
func (h *Handlers) SubmitSignedMint(c *fiber.Ctx) error {
	var body submitMintBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	if body.TransactionPayload == "" {
		return response.Error(c, "transactionPayload is required", 400, nil)
	}

	result, err := h.Gateway.SubmitSignedMint(c.Context(), body.TransactionPayload)
	if err != nil {
		return response.Error(c, err.Error(), mintErrStatus(err), nil)
	}

	now := time.Now().UTC()
	token := domain.MintedToken{
		TokenID:      result.TokenID,
		SerialNumber: result.SerialNumber,
		Metadata:     body.Metadata,
		Timestamp:    &now,
	}
	if err := h.Minted.Record(c.Context(), token); err != nil {
		// The mint landed on the network; losing the local record is
		// recoverable via verify-mint, so log and keep going.
		log.Warn().Err(err).Str("tokenId", result.TokenID).
			Int64("serial", result.SerialNumber).Msg("failed to record minted token")
	}
	return response.Success(c, "NFT minted successfully", result, nil)
}

// GET /api/v1/mint/verify-mint/:token_id/:serial
func (h *Handlers) VerifyMint(c *fiber.Ctx) error {
	tokenID := c.Params("token_id")
	serial, err := strconv.ParseInt(c.Params("serial"), 10, 64)
	if err != nil || serial < 1 {
		return response.Error(c, "Invalid serial number", 400, nil)
	}
	info, err := h.Mirror.NFTInfo(c.Context(), tokenID, serial)
	if err != nil {
		if errors.Is(err, mirror.ErrNotFound) {
			return response.Error(c, "NFT not found on mirror node", 404, nil)
		}
		return response.Error(c, "Mirror node lookup failed", fiber.StatusBadGateway, nil)
	}
	return response.Success(c, "NFT verified", info, nil)
}

// GET /api/v1/mint/minted-tokens
func (h *Handlers) MintedTokens(c *fiber.Ctx) error {
	tokens, err := h.Minted.All(c.Context())
	if err != nil {
		return response.Error(c, "Failed to read minted tokens", 500, nil)
	}
	return response.Success(c, "Minted tokens fetched", tokens, fiber.Map{"count": len(tokens)})
}
