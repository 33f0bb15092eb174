package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/puzpuzpuz/xsync"
	"github.com/stakepoint-labs/backend/pkg/xcontext"
)

// TokenTrait is one (type, value) attribute of a held token.
type TokenTrait struct {
	Type  string `json:"trait_type"`
	Value string `json:"value"`
}

type HeldToken struct {
	TokenID string       `json:"token_id"`
	Traits  []TokenTrait `json:"traits"`
	Media   string       `json:"media"`
}

// HoldingsCaller answers "which tokens of this collection does the wallet
// hold right now". It is the only upstream the accrual engine depends on.
type HoldingsCaller interface {
	GetHoldings(ctx context.Context, chain, walletAddress, contractAddress string) ([]HeldToken, error)
}

type holdingsPage struct {
	Tokens   []HeldToken `json:"tokens"`
	PageInfo struct {
		HasNext bool `json:"has_next"`
	} `json:"page_info"`
}

type cachedHoldings struct {
	tokens    []HeldToken
	fetchedAt time.Time
}

type holdingsCaller struct {
	httpClient *http.Client
	cache      *xsync.MapOf[string, cachedHoldings]
}

func NewHoldingsCaller(requestTimeout time.Duration) *holdingsCaller {
	return &holdingsCaller{
		httpClient: &http.Client{Timeout: requestTimeout},
		cache:      xsync.NewMapOf[cachedHoldings](),
	}
}

func (c *holdingsCaller) GetHoldings(
	ctx context.Context, chain, walletAddress, contractAddress string,
) ([]HeldToken, error) {
	cfg := xcontext.Configs(ctx).Oracle
	chainCfg, ok := cfg.Chains[chain]
	if !ok {
		return nil, fmt.Errorf("no holdings indexer configured for chain %s", chain)
	}

	cacheKey := fmt.Sprintf("%s/%s/%s", chain, walletAddress, contractAddress)
	if cached, ok := c.cache.Load(cacheKey); ok {
		if time.Since(cached.fetchedAt) < cfg.CacheTTL {
			return cached.tokens, nil
		}
	}

	limit := chainCfg.PageLimit
	if limit <= 0 {
		limit = 100
	}

	tokens := []HeldToken{}
	for offset := 0; ; offset += limit {
		page, err := c.getPage(ctx, chainCfg.URL, walletAddress, contractAddress, limit, offset)
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, page.Tokens...)
		if !page.PageInfo.HasNext {
			break
		}
	}

	c.cache.Store(cacheKey, cachedHoldings{tokens: tokens, fetchedAt: time.Now()})
	return tokens, nil
}

func (c *holdingsCaller) getPage(
	ctx context.Context, baseURL, walletAddress, contractAddress string, limit, offset int,
) (*holdingsPage, error) {
	endpoint, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	query := endpoint.Query()
	query.Set("owner", walletAddress)
	query.Set("contract", contractAddress)
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holdings indexer returned status %d", resp.StatusCode)
	}

	var page holdingsPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, err
	}

	return &page, nil
}
