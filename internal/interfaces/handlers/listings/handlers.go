package listings

import (
	mktsvc "sheettochain-backend/internal/application/marketplace"
	"sheettochain-backend/internal/middleware"
	"sheettochain-backend/internal/pkg/response"
	"sheettochain-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *mktsvc.Service
}

type createListingBody struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Rows        int      `json:"rows"`
	Categories  []string `json:"categories"`
	DataHash    string   `json:"dataHash"`
	FileURL     string   `json:"fileUrl"`
	Preview     []string `json:"preview"`
}

// POST /api/v1/marketplace/create-listing
func (h *Handlers) CreateListing(c *fiber.Ctx) error {
	var body createListingBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	if msg := validation.ValidateNewListing(body.Name, body.Description, body.Price, body.Rows, body.Categories); msg != "" {
		return response.Error(c, msg, 400, nil)
	}

	listing := h.Service.CreateListing(c.Context(), mktsvc.CreateListingInput{
		Name:        body.Name,
		Description: body.Description,
		Price:       body.Price,
		Rows:        body.Rows,
		Categories:  body.Categories,
		Seller:      middleware.GetWallet(c),
		DataHash:    body.DataHash,
		FileURL:     body.FileURL,
		Preview:     body.Preview,
	})
	return response.SuccessCreated(c, "Listing created successfully", listing, nil)
}

// GET /api/v1/marketplace/get-all-listings
func (h *Handlers) GetAllListings(c *fiber.Ctx) error {
	h.Service.Sync(c.Context())
	listings := h.Service.Listings()
	return response.Success(c, "Listings fetched successfully", listings, fiber.Map{"count": len(listings)})
}

// GET /api/v1/marketplace/get-listing/:listing_id
func (h *Handlers) GetListingByID(c *fiber.Ctx) error {
	id := c.Params("listing_id")
	if id == "" {
		return response.Error(c, "listing_id is required", 400, nil)
	}
	h.Service.Sync(c.Context())
	listing, ok := h.Service.ListingByID(id)
	if !ok {
		return response.Error(c, "Listing not found", 404, nil)
	}
	return response.Success(c, "Listing fetched successfully", listing, nil)
}

// GET /api/v1/marketplace/search?q=
func (h *Handlers) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return response.Error(c, "Search query is required", 400, nil)
	}
	results := h.Service.Search(query)
	return response.Success(c, "Search completed", results, fiber.Map{"count": len(results), "query": query})
}

// GET /api/v1/marketplace/category/:category
func (h *Handlers) ByCategory(c *fiber.Ctx) error {
	category := c.Params("category")
	if category == "" {
		return response.Error(c, "Category is required", 400, nil)
	}
	results := h.Service.ByCategory(category)
	return response.Success(c, "Category listings fetched", results, fiber.Map{"count": len(results)})
}

// GET /api/v1/marketplace/stats
func (h *Handlers) Stats(c *fiber.Ctx) error {
	return response.Success(c, "Marketplace stats", h.Service.MarketplaceStats(), nil)
}

// POST /api/v1/marketplace/sync
func (h *Handlers) Sync(c *fiber.Ctx) error {
	added := h.Service.Sync(c.Context())
	return response.Success(c, "Marketplace synchronized", fiber.Map{"newListings": added}, nil)
}

type updateListingBody struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Rows        *int     `json:"rows"`
	Categories  []string `json:"categories"`
	FileURL     *string  `json:"fileUrl"`
	Preview     []string `json:"preview"`
}

// PUT /api/v1/marketplace/update-listing/:listing_id
func (h *Handlers) UpdateListing(c *fiber.Ctx) error {
	id := c.Params("listing_id")
	if id == "" {
		return response.Error(c, "listing_id is required", 400, nil)
	}
	existing, ok := h.Service.ListingByID(id)
	if !ok {
		return response.Error(c, "Listing not found", 404, nil)
	}
	if existing.Seller != middleware.GetWallet(c) {
		return response.Error(c, "Only the seller can update this listing", 403, nil)
	}

	var body updateListingBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	if body.Price != nil && !validation.IsValidPrice(*body.Price) {
		return response.Error(c, "Price must be greater than zero", 400, nil)
	}

	listing, ok := h.Service.UpdateListing(c.Context(), id, mktsvc.ListingPatch{
		Name:        body.Name,
		Description: body.Description,
		Price:       body.Price,
		Rows:        body.Rows,
		Categories:  body.Categories,
		FileURL:     body.FileURL,
		Preview:     body.Preview,
	})
	if !ok {
		return response.Error(c, "Listing not found", 404, nil)
	}
	return response.Success(c, "Listing updated successfully", listing, nil)
}

// DELETE /api/v1/marketplace/delete-listing/:listing_id
func (h *Handlers) DeleteListing(c *fiber.Ctx) error {
	id := c.Params("listing_id")
	if id == "" {
		return response.Error(c, "listing_id is required", 400, nil)
	}
	existing, ok := h.Service.ListingByID(id)
	if !ok {
		return response.Error(c, "Listing not found", 404, nil)
	}
	if existing.Seller != middleware.GetWallet(c) {
		return response.Error(c, "Only the seller can delete this listing", 403, nil)
	}
	if !h.Service.DeleteListing(c.Context(), id) {
		return response.Error(c, "Listing not found", 404, nil)
	}
	return response.Success(c, "Listing deleted successfully", fiber.Map{"id": id}, nil)
}

// GET /api/v1/marketplace/my-purchases
func (h *Handlers) MyPurchases(c *fiber.Ctx) error {
	wallet := middleware.GetWallet(c)
	purchases := h.Service.PurchasesByBuyer(wallet)
	return response.Success(c, "Purchases fetched", purchases, fiber.Map{"count": len(purchases)})
}

// GET /api/v1/marketplace/my-sales
func (h *Handlers) MySales(c *fiber.Ctx) error {
	wallet := middleware.GetWallet(c)
	sales := h.Service.PurchasesBySeller(wallet)
	return response.Success(c, "Sales fetched", sales, fiber.Map{"count": len(sales)})
}
