// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholargraph/pkg/types"
)

func testClient(t *testing.T, srv *httptest.Server, cfg types.FetchConfig) *Client {
	t.Helper()
	// Pace fast; these tests make a handful of requests.
	cfg.RateLimit = 1000
	c := NewClient(cfg)
	c.SetBaseURL(srv.URL)
	return c
}

func TestSearchPaperIDsFollowsTokens(t *testing.T) {
	var gotTokens []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/paper/search/bulk", r.URL.Path)
		token := r.URL.Query().Get("token")
		gotTokens = append(gotTokens, token)
		switch token {
		case "":
			fmt.Fprint(w, `{"total":3,"token":"page2","data":[{"paperId":"p1"},{"paperId":"p2"},{"paperId":"p1"}]}`)
		case "page2":
			fmt.Fprint(w, `{"total":3,"data":[{"paperId":"p3"},{"paperId":""}]}`)
		default:
			t.Errorf("unexpected token %q", token)
		}
	}))
	defer srv.Close()

	c := testClient(t, srv, types.FetchConfig{})
	ids, err := c.SearchPaperIDs(context.Background(), types.FetchConfig{Query: "graphs", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2", "p3"}, ids, "duplicates and empty IDs collapse")
	assert.Equal(t, []string{"", "page2"}, gotTokens)
}

func TestSearchPaperIDsStopsAtLimit(t *testing.T) {
	pages := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		fmt.Fprintf(w, `{"token":"more","data":[{"paperId":"p%d-1"},{"paperId":"p%d-2"}]}`, pages, pages)
	}))
	defer srv.Close()

	c := testClient(t, srv, types.FetchConfig{})
	ids, err := c.SearchPaperIDs(context.Background(), types.FetchConfig{Query: "q", Limit: 3})
	require.NoError(t, err)
	assert.Len(t, ids, 3)
	assert.Equal(t, 2, pages, "stop paging once the limit is reached")
}

func TestSearchPaperIDsSendsFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "graphs", q.Get("query"))
		assert.Equal(t, "50", q.Get("minCitationCount"))
		assert.Equal(t, "2018-2021", q.Get("year"))
		assert.Equal(t, "Computer Science,Mathematics", q.Get("fieldsOfStudy"))
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer srv.Close()

	c := testClient(t, srv, types.FetchConfig{})
	_, err := c.SearchPaperIDs(context.Background(), types.FetchConfig{
		Query:         "graphs",
		MinCitations:  50,
		Year:          "2018-2021",
		FieldsOfStudy: []string{"Computer Science", "Mathematics"},
		Limit:         10,
	})
	require.NoError(t, err)
}

func TestPaperDetailsChunksAndDropsNulls(t *testing.T) {
	var chunkSizes []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/paper/batch", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret-key", r.Header.Get("x-api-key"))

		var body struct {
			IDs []string `json:"ids"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		chunkSizes = append(chunkSizes, len(body.IDs))

		out := make([]json.RawMessage, 0, len(body.IDs))
		for i, id := range body.IDs {
			if i == 0 && len(chunkSizes) == 1 {
				// The API returns null for IDs it cannot resolve.
				out = append(out, json.RawMessage("null"))
				continue
			}
			out = append(out, json.RawMessage(`{"paperId":"`+id+`"}`))
		}
		json.NewEncoder(w).Encode(out)
	}))
	defer srv.Close()

	ids := make([]string, 600)
	for i := range ids {
		ids[i] = "p" + strconv.Itoa(i)
	}

	c := testClient(t, srv, types.FetchConfig{APIKey: "secret-key"})
	papers, err := c.PaperDetails(context.Background(), ids)
	require.NoError(t, err)
	assert.Equal(t, []int{500, 100}, chunkSizes)
	assert.Len(t, papers, 599, "one null dropped")
}

func TestCitationsPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/paper/p1/citations", r.URL.Path)
		offset := r.URL.Query().Get("offset")
		switch offset {
		case "":
			fmt.Fprint(w, `{"offset":0,"next":2,"data":[
				{"citingPaper":{"paperId":"c1"},"isInfluential":true},
				{"citingPaper":{"paperId":"c2"}}]}`)
		case "2":
			fmt.Fprint(w, `{"offset":2,"data":[{"citingPaper":{"paperId":"c3"}}]}`)
		default:
			t.Errorf("unexpected offset %q", offset)
		}
	}))
	defer srv.Close()

	c := testClient(t, srv, types.FetchConfig{})
	var got []types.Citation
	err := c.Citations(context.Background(), "p1", func(cit types.Citation) error {
		got = append(got, cit)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "c1", got[0].CitingPaper.PaperID)
	assert.True(t, got[0].IsInfluential)
	for _, cit := range got {
		assert.Equal(t, "p1", cit.CitedPaper.PaperID, "cited endpoint is filled in")
	}
}

func TestCitationsStopsAtOffsetCap(t *testing.T) {
	var limits []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limits = append(limits, r.URL.Query().Get("limit"))
		offset := r.URL.Query().Get("offset")
		switch offset {
		case "":
			fmt.Fprint(w, `{"offset":0,"next":9000,"data":[{"citingPaper":{"paperId":"a"}}]}`)
		case "9000":
			// Shortened final page; the API refuses offsets past 10000.
			fmt.Fprint(w, `{"offset":9000,"next":9999,"data":[{"citingPaper":{"paperId":"b"}}]}`)
		default:
			t.Errorf("unexpected offset %q", offset)
		}
	}))
	defer srv.Close()

	c := testClient(t, srv, types.FetchConfig{})
	count := 0
	err := c.Citations(context.Background(), "p1", func(types.Citation) error {
		count++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	// The second request must shrink its limit to stay under the cap.
	assert.Equal(t, []string{"1000", "999"}, limits)
}
