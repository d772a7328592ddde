package csv

import (
	"errors"
	"io"

	"sheettochain-backend/internal/application/csvdata"
	"sheettochain-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// 10 MB, same cap the upload form enforces client side.
const maxFileSize = 10 << 20

type Handlers struct{}

// Process POST /api/v1/csv/process
//
// Accepts a multipart "file" field, extracts shape metadata and the content
// hash used as the on-chain fingerprint. The file itself is never stored.
func (h *Handlers) Process(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, "CSV file is required", 400, nil)
	}
	if fileHeader.Size > maxFileSize {
		return response.Error(c, "File exceeds the 10MB limit", fiber.StatusRequestEntityTooLarge, nil)
	}

	f, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, "Failed to read uploaded file", 500, nil)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return response.Error(c, "Failed to read uploaded file", 500, nil)
	}

	meta, err := csvdata.Process(fileHeader.Filename, data)
	if err != nil {
		if errors.Is(err, csvdata.ErrEmptyFile) {
			return response.Error(c, "CSV file is empty", 400, nil)
		}
		log.Warn().Err(err).Str("fileName", fileHeader.Filename).Msg("csv: parse failed")
		return response.Error(c, "Failed to parse CSV file", 400, nil)
	}
	return response.Success(c, "CSV processed successfully", meta, nil)
}
