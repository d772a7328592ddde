package mint

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	mktsvc "sheettochain-backend/internal/application/marketplace"
	"sheettochain-backend/internal/application/minted"
	"sheettochain-backend/internal/domain"
	"sheettochain-backend/internal/infrastructure/hedera"
	"sheettochain-backend/internal/infrastructure/kv"
	"sheettochain-backend/internal/infrastructure/mirror"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	prepared   *hedera.PreparedMint
	prepareErr error
	result     *hedera.MintResult
	submitErr  error
}

func (f *fakeGateway) Configured() bool { return true }

func (f *fakeGateway) PrepareMint(ctx context.Context, meta domain.CSVMetadata, owner string) (*hedera.PreparedMint, error) {
	if f.prepareErr != nil {
		return nil, f.prepareErr
	}
	return f.prepared, nil
}

func (f *fakeGateway) SubmitSignedMint(ctx context.Context, payloadB64 string) (*hedera.MintResult, error) {
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return f.result, nil
}

func (f *fakeGateway) TransferHbar(ctx context.Context, to string, amount float64) (string, error) {
	return "", errors.New("not implemented")
}

func setupApp(t *testing.T, gw hedera.Gateway, store kv.Store, mc *mirror.Client) (*fiber.App, *minted.Service) {
	t.Helper()
	mintedSvc := minted.New(store)
	h := &Handlers{Gateway: gw, Minted: mintedSvc, Mirror: mc}

	app := fiber.New()
	grp := app.Group("/api/v1/mint")
	grp.Post("/prepare-mint", h.PrepareMint)
	grp.Post("/submit-signed-mint", h.SubmitSignedMint)
	grp.Get("/verify-mint/:token_id/:serial", h.VerifyMint)
	grp.Get("/minted-tokens", h.MintedTokens)
	return app, mintedSvc
}

func post(t *testing.T, app *fiber.App, target string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return resp.StatusCode, out
}

func TestPrepareMint_ValidatesOwner(t *testing.T) {
	app, _ := setupApp(t, &fakeGateway{}, kv.NewMemoryStore(), nil)
	code, _ := post(t, app, "/api/v1/mint/prepare-mint", fiber.Map{
		"ownerAccountId": "not-an-account",
		"metadata":       fiber.Map{"hash": "abc"},
	})
	assert.Equal(t, 400, code)
}

func TestPrepareMint_Success(t *testing.T) {
	gw := &fakeGateway{prepared: &hedera.PreparedMint{TransactionPayload: "cGF5bG9hZA==", TokenID: "0.0.999"}}
	app, _ := setupApp(t, gw, kv.NewMemoryStore(), nil)

	code, out := post(t, app, "/api/v1/mint/prepare-mint", fiber.Map{
		"ownerAccountId": "0.0.1234",
		"metadata":       fiber.Map{"hash": "deadbeef", "fileName": "data.csv", "rowCount": 10},
	})
	assert.Equal(t, 200, code)
	data := out["data"].(map[string]interface{})
	assert.Equal(t, "cGF5bG9hZA==", data["transactionPayload"])
	assert.Equal(t, "0.0.999", data["tokenId"])
}

func TestPrepareMint_NotConfigured(t *testing.T) {
	gw := &fakeGateway{prepareErr: hedera.ErrNotConfigured}
	app, _ := setupApp(t, gw, kv.NewMemoryStore(), nil)

	code, _ := post(t, app, "/api/v1/mint/prepare-mint", fiber.Map{
		"ownerAccountId": "0.0.1234",
		"metadata":       fiber.Map{"hash": "deadbeef"},
	})
	assert.Equal(t, 503, code)
}

func TestPrepareMint_MetadataTooLarge(t *testing.T) {
	gw := &fakeGateway{prepareErr: hedera.ErrMetadataTooLarge}
	app, _ := setupApp(t, gw, kv.NewMemoryStore(), nil)

	code, _ := post(t, app, "/api/v1/mint/prepare-mint", fiber.Map{
		"ownerAccountId": "0.0.1234",
		"metadata":       fiber.Map{"hash": "deadbeef"},
	})
	assert.Equal(t, 400, code)
}

func TestSubmitSignedMint_RecordsToken(t *testing.T) {
	store := kv.NewMemoryStore()
	gw := &fakeGateway{result: &hedera.MintResult{
		TokenID: "0.0.999", SerialNumber: 7, TransactionID: "0.0.1@1.2",
		ExplorerURL: "https://hashscan.io/testnet/transaction/0.0.1@1.2",
	}}
	app, mintedSvc := setupApp(t, gw, store, nil)

	code, out := post(t, app, "/api/v1/mint/submit-signed-mint", fiber.Map{
		"transactionPayload": "cGF5bG9hZA==",
		"metadata":           fiber.Map{"fileName": "weather.csv", "rowCount": 42, "hash": "deadbeef"},
	})
	assert.Equal(t, 200, code)
	data := out["data"].(map[string]interface{})
	assert.EqualValues(t, 7, data["serialNumber"])

	tokens, err := mintedSvc.All(context.Background())
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "0.0.999", tokens[0].TokenID)
	assert.Equal(t, "weather.csv", tokens[0].Metadata.FileName)
	assert.NotNil(t, tokens[0].Timestamp)
}

func TestSubmitSignedMint_ThenMarketplaceSyncProducesListing(t *testing.T) {
	store := kv.NewMemoryStore()
	gw := &fakeGateway{result: &hedera.MintResult{TokenID: "0.0.1", SerialNumber: 1, TransactionID: "tx"}}
	app, _ := setupApp(t, gw, store, nil)

	code, _ := post(t, app, "/api/v1/mint/submit-signed-mint", fiber.Map{
		"transactionPayload": "cGF5bG9hZA==",
		"metadata":           fiber.Map{"fileName": "weather.csv", "rowCount": 42, "hash": "deadbeef"},
	})
	require.Equal(t, 200, code)

	svc := mktsvc.New(store, mktsvc.Options{})
	listings := svc.Listings()
	require.Len(t, listings, 1)
	assert.Equal(t, "tokenized_0.0.1_1", listings[0].ID)
	assert.Equal(t, "weather", listings[0].Name)
	assert.Equal(t, 42, listings[0].Rows)
}

func TestVerifyMint_FoundAndMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/tokens/0.0.999/nfts/7" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"token_id":"0.0.999","serial_number":7,"account_id":"0.0.1234","metadata":"eyJoIjoiYWJjIn0=","created_timestamp":"1700000000.000000001","deleted":false}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	mc := &mirror.Client{BaseURL: srv.URL}
	app, _ := setupApp(t, &fakeGateway{}, kv.NewMemoryStore(), mc)

	req := httptest.NewRequest("GET", "/api/v1/mint/verify-mint/0.0.999/7", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "0.0.1234", out["data"].(map[string]interface{})["account_id"])

	resp2, err := app.Test(httptest.NewRequest("GET", "/api/v1/mint/verify-mint/0.0.999/8", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp2.StatusCode)

	resp3, err := app.Test(httptest.NewRequest("GET", "/api/v1/mint/verify-mint/0.0.999/zero", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp3.StatusCode)
}
