package csv

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp() *fiber.App {
	h := &Handlers{}
	app := fiber.New()
	app.Post("/api/v1/csv/process", h.Process)
	return app
}

func multipartCSV(t *testing.T, fileName, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestProcess_MissingFile(t *testing.T) {
	app := setupApp()
	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/csv/process", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestProcess_EmptyFile(t *testing.T) {
	app := setupApp()
	body, ctype := multipartCSV(t, "empty.csv", "")
	req := httptest.NewRequest("POST", "/api/v1/csv/process", body)
	req.Header.Set("Content-Type", ctype)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestProcess_Success(t *testing.T) {
	app := setupApp()
	body, ctype := multipartCSV(t, "weather.csv", "city,temp,humidity\nBerlin,21,60\nMadrid,28,35\n")
	req := httptest.NewRequest("POST", "/api/v1/csv/process", body)
	req.Header.Set("Content-Type", ctype)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	data := out["data"].(map[string]interface{})
	assert.Equal(t, "weather.csv", data["fileName"])
	assert.EqualValues(t, 2, data["rowCount"])
	assert.Len(t, data["columns"].([]interface{}), 3)
	assert.Len(t, data["hash"].(string), 64)
	summary := data["summary"].(map[string]interface{})
	assert.EqualValues(t, 2, summary["totalRows"])
	assert.EqualValues(t, 3, summary["totalColumns"])
}
