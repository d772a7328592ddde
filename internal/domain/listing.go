package domain

import "time"

// Listing is a catalog entry for a dataset offered for sale. The JSON shape
// matches what the frontend stored under "marketplace_listings".
type Listing struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"` // in HBAR
	Rows        int       `json:"rows"`
	Categories  []string  `json:"categories"`
	Seller      string    `json:"seller"`
	Timestamp   time.Time `json:"timestamp"`
	DataHash    string    `json:"dataHash"`
	FileURL     string    `json:"fileUrl,omitempty"`
	Preview     []string  `json:"preview,omitempty"`
	Rating      float64   `json:"rating,omitempty"`
	Purchases   int       `json:"purchases"`
}

// Clone returns a deep copy so callers cannot mutate ledger state in place.
func (l Listing) Clone() Listing {
	out := l
	if l.Categories != nil {
		out.Categories = append([]string(nil), l.Categories...)
	}
	if l.Preview != nil {
		out.Preview = append([]string(nil), l.Preview...)
	}
	return out
}
