package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrNotFound = errors.New("mirror: NFT not found")

// NFTInfo is the subset of the mirror-node NFT response we surface for mint
// verification.
type NFTInfo struct {
	TokenID          string `json:"token_id"`
	SerialNumber     int64  `json:"serial_number"`
	AccountID        string `json:"account_id"`
	Metadata         string `json:"metadata"` // base64, as returned by the mirror node
	CreatedTimestamp string `json:"created_timestamp"`
	Deleted          bool   `json:"deleted"`
}

// Client queries the public Hedera mirror-node REST API. Read-only; used to
// verify that a mint actually landed on the network.
type Client struct {
	BaseURL string // e.g. https://testnet.mirrornode.hedera.com
	Client  *http.Client
}

func (c *Client) NFTInfo(ctx context.Context, tokenID string, serial int64) (*NFTInfo, error) {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 10 * time.Second}
	}
	if c.BaseURL == "" {
		return nil, fmt.Errorf("mirror: MIRROR_BASE_URL is not set")
	}
	base := strings.TrimRight(c.BaseURL, "/")
	url := fmt.Sprintf("%s/api/v1/tokens/%s/nfts/%d", base, tokenID, serial)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("mirror: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var info NFTInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("mirror: failed to decode response: %w", err)
	}
	return &info, nil
}
