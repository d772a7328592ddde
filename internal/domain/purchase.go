package domain

import "time"

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseCompleted PurchaseStatus = "completed"
	PurchaseFailed    PurchaseStatus = "failed"
)

// Purchase records one buyer acquiring access to one listing. Purchases are
// append-only; they are never mutated or deleted after creation.
type Purchase struct {
	ID            string         `json:"id"`
	BuyerID       string         `json:"buyerId"`
	SellerID      string         `json:"sellerId"`
	DataID        string         `json:"dataId"`
	Amount        float64        `json:"amount"` // in HBAR
	Timestamp     time.Time      `json:"timestamp"`
	TransactionID string         `json:"transactionId,omitempty"`
	Status        PurchaseStatus `json:"status"`
}
