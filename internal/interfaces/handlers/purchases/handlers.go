package purchases

import (
	"fmt"

	mktsvc "sheettochain-backend/internal/application/marketplace"
	"sheettochain-backend/internal/domain"
	"sheettochain-backend/internal/infrastructure/hedera"
	"sheettochain-backend/internal/middleware"
	"sheettochain-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *mktsvc.Service
	Gateway hedera.Gateway
}

type purchaseBody struct {
	ListingID string  `json:"listingId"`
	Amount    float64 `json:"amount"`
}

// POST /api/v1/marketplace/purchase-data
//
// Attempts the on-ledger HBAR transfer to the seller before recording the
// purchase. When the transfer fails or the operator is not configured, the
// outcome depends on the confirmation policy: strict mode records the
// purchase as failed and reports an error; permissive mode records it as
// completed anyway.
func (h *Handlers) PurchaseData(c *fiber.Ctx) error {
	var body purchaseBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	if body.ListingID == "" {
		return response.Error(c, "listingId is required", 400, nil)
	}
	if body.Amount <= 0 {
		return response.Error(c, "Amount must be greater than zero", 400, nil)
	}

	buyer := middleware.GetWallet(c)
	h.Service.Sync(c.Context())
	listing, ok := h.Service.ListingByID(body.ListingID)
	if !ok {
		return response.Error(c, "Listing not found", 404, nil)
	}
	if body.Amount != listing.Price {
		return response.Error(c, "Amount does not match listing price", 400, fiber.Map{
			"expected": listing.Price,
			"got":      body.Amount,
		})
	}

	txID, transferErr := h.transfer(c, listing.Seller, body.Amount)

	status := domain.PurchaseCompleted
	if transferErr != nil && !h.Service.AllowUnconfirmedTransfer() {
		status = domain.PurchaseFailed
	}
	purchase := h.Service.RecordPurchase(c.Context(), mktsvc.RecordPurchaseInput{
		BuyerID:       buyer,
		SellerID:      listing.Seller,
		ListingID:     listing.ID,
		Amount:        body.Amount,
		TransactionID: txID,
		Status:        status,
	})

	if status == domain.PurchaseFailed {
		log.Warn().Str("purchaseId", purchase.ID).Str("listingId", listing.ID).
			Err(transferErr).Msg("purchase recorded as failed, transfer not confirmed")
		return response.Error(c, "HBAR transfer failed", fiber.StatusBadGateway, fiber.Map{
			"purchaseId": purchase.ID,
		})
	}

	if transferErr != nil {
		// Permissive mode: the sheet is handed over even without confirmation.
		log.Warn().Str("purchaseId", purchase.ID).Err(transferErr).
			Msg("transfer unconfirmed, continuing with purchase")
	}

	message := fmt.Sprintf("Successfully purchased %q for %v HBAR", listing.Name, body.Amount)
	return response.Success(c, message, fiber.Map{
		"purchaseId":    purchase.ID,
		"transactionId": purchase.TransactionID,
		"purchase": fiber.Map{
			"id":        purchase.ID,
			"status":    purchase.Status,
			"timestamp": purchase.Timestamp,
		},
	}, nil)
}

func (h *Handlers) transfer(c *fiber.Ctx, seller string, amount float64) (string, error) {
	if h.Gateway == nil || !h.Gateway.Configured() {
		return "", hedera.ErrNotConfigured
	}
	return h.Gateway.TransferHbar(c.Context(), seller, amount)
}
