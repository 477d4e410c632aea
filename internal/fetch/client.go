// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/scholargraph/internal/httputil"
	"github.com/pdiddy/scholargraph/pkg/types"
)

// DefaultBaseURL is the Semantic Scholar Graph API root. Tests point a
// Client at an httptest server instead.
const DefaultBaseURL = "https://api.semanticscholar.org/graph/v1"

const (
	// detailFields is the field projection requested for full paper records.
	detailFields = "paperId,url,title,abstract,year,isOpenAccess,openAccessPdf," +
		"publicationTypes,embedding,tldr,fieldsOfStudy,journal,publicationVenue," +
		"authors.authorId,authors.url,authors.name,authors.homepage," +
		"authors.hIndex,authors.affiliations"

	// citationFields is the field projection for citation listings.
	citationFields = "citingPaper.paperId,isInfluential,contextsWithIntent"

	// detailBatchSize is the API's maximum for POST paper/batch.
	detailBatchSize = 500

	// citationPageSize is the page size for citation listings.
	citationPageSize = 1000

	// maxCitations is the API's hard cap on offset-paginated citation
	// retrieval; listings longer than this are truncated.
	maxCitations = 10_000

	defaultTimeout   = 60 * time.Second
	defaultRateLimit = 1.0
)

// Client is a rate-limited, retrying client for the Semantic Scholar
// Graph API. Requests are paced by a token bucket ahead of every call
// and transient failures are retried by httputil.DoJSON.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	apiKey     string
	userAgent  string
	maxRetries int
}

// NewClient builds a Client from the fetch configuration.
func NewClient(cfg types.FetchConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	rl := cfg.RateLimit
	if rl <= 0 {
		rl = defaultRateLimit
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rl), 1),
		baseURL:    DefaultBaseURL,
		apiKey:     cfg.APIKey,
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
	}
}

// SetBaseURL overrides the API root, for tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

type searchResponse struct {
	Total int             `json:"total"`
	Token string          `json:"token"`
	Data  []types.PaperRef `json:"data"`
}

// SearchPaperIDs runs a bulk paper search and follows continuation
// tokens until limit IDs are collected or the API reports exhaustion.
// Duplicate IDs across pages are collapsed, first occurrence wins.
func (c *Client) SearchPaperIDs(ctx context.Context, cfg types.FetchConfig) ([]string, error) {
	params := url.Values{
		"query":  {cfg.Query},
		"fields": {"paperId"},
	}
	if cfg.MinCitations > 0 {
		params.Set("minCitationCount", strconv.Itoa(cfg.MinCitations))
	}
	if cfg.Year != "" {
		params.Set("year", cfg.Year)
	}
	if len(cfg.FieldsOfStudy) > 0 {
		params.Set("fieldsOfStudy", strings.Join(cfg.FieldsOfStudy, ","))
	}

	seen := make(map[string]bool)
	var ids []string
	for {
		var page searchResponse
		if err := c.get(ctx, "paper/search/bulk", params, &page); err != nil {
			return nil, fmt.Errorf("paper search: %w", err)
		}
		for _, ref := range page.Data {
			if len(ids) >= cfg.Limit {
				break
			}
			if ref.PaperID == "" || seen[ref.PaperID] {
				continue
			}
			seen[ref.PaperID] = true
			ids = append(ids, ref.PaperID)
		}
		if page.Token == "" || len(ids) >= cfg.Limit {
			return ids, nil
		}
		params.Set("token", page.Token)
	}
}

// PaperDetails fetches full records for ids via the batch endpoint,
// chunking at the API's 500-ID maximum. Records come back in request
// order; IDs the API cannot resolve yield nulls, which are dropped.
func (c *Client) PaperDetails(ctx context.Context, ids []string) ([]types.Paper, error) {
	params := url.Values{"fields": {detailFields}}

	var papers []types.Paper
	for start := 0; start < len(ids); start += detailBatchSize {
		end := min(start+detailBatchSize, len(ids))

		var chunk []*types.Paper
		if err := c.post(ctx, "paper/batch", params, map[string]any{"ids": ids[start:end]}, &chunk); err != nil {
			return nil, fmt.Errorf("paper details: %w", err)
		}
		for _, p := range chunk {
			if p != nil {
				papers = append(papers, *p)
			}
		}
	}
	return papers, nil
}

type citationsResponse struct {
	Offset int              `json:"offset"`
	Next   *int             `json:"next"`
	Data   []types.Citation `json:"data"`
}

// Citations pages through the papers citing paperID and passes each edge
// to fn with CitedPaper filled in. The API caps offset pagination at
// 10 000 citations per paper; listings beyond that are truncated.
func (c *Client) Citations(ctx context.Context, paperID string, fn func(types.Citation) error) error {
	params := url.Values{
		"fields": {citationFields},
		"limit":  {strconv.Itoa(citationPageSize)},
	}
	endpoint := "paper/" + paperID + "/citations"

	for {
		var page citationsResponse
		if err := c.get(ctx, endpoint, params, &page); err != nil {
			return fmt.Errorf("citations of %s: %w", paperID, err)
		}
		for _, cit := range page.Data {
			cit.CitedPaper = types.PaperRef{PaperID: paperID}
			if err := fn(cit); err != nil {
				return err
			}
		}
		if page.Next == nil {
			return nil
		}
		next := *page.Next
		if next >= maxCitations-1 {
			return nil
		}
		params.Set("offset", strconv.Itoa(next))
		params.Set("limit", strconv.Itoa(min(citationPageSize, maxCitations-next-1)))
	}
}

func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/"+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(ctx, req, v)
}

func (c *Client) post(ctx context.Context, path string, params url.Values, body, v any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/"+path+"?"+params.Encode(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(ctx, req, v)
}

func (c *Client) do(ctx context.Context, req *http.Request, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	return httputil.DoJSON(ctx, c.httpClient, req, c.maxRetries, v)
}
