package comptroller

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"
)

// SearchEnvelope is the top-level search response. The upstream API's
// pagination shape is not consistent across deployments: some responses nest a
// pagination object, some carry page counters at the top level, and some only
// expose a links.next flag. All three are decoded; NextPage resolves them in
// priority order.
type SearchEnvelope struct {
	Success *bool `json:"success"`

	Data    json.RawMessage `json:"data"`
	Results json.RawMessage `json:"results"`

	Pagination *PageInfo `json:"pagination"`
	PageInfo             // same counters, flattened at the top level
	Links      *Links    `json:"links"`
}

// PageInfo holds page counters under both observed key spellings.
type PageInfo struct {
	Page            int `json:"page"`
	CurrentPage     int `json:"currentPage"`
	TotalPages      int `json:"totalPages"`
	TotalPagesSnake int `json:"total_pages"`
}

// current returns the current-page counter, preferring "page" over "currentPage".
func (p PageInfo) current() int {
	if p.Page > 0 {
		return p.Page
	}
	return p.CurrentPage
}

// total returns the total-pages counter, preferring "totalPages" over "total_pages".
func (p PageInfo) total() int {
	if p.TotalPages > 0 {
		return p.TotalPages
	}
	return p.TotalPagesSnake
}

// Links holds pagination links. Only the presence of a next entry matters.
type Links struct {
	Next json.RawMessage `json:"next"`
}

// rejected reports whether the body explicitly marked the request as failed.
// Only an explicit false counts; an absent flag is success.
func (e *SearchEnvelope) rejected() bool {
	return e.Success != nil && !*e.Success
}

// NextPage returns the page number to fetch after current, or false when the
// envelope signals no further pages. Resolution order: nested pagination
// object, flat top-level counters, then links.next presence.
func NextPage(env *SearchEnvelope, current int) (int, bool) {
	if p := env.Pagination; p != nil {
		if cur, tot := p.current(), p.total(); cur > 0 && tot > 0 && cur < tot {
			return cur + 1, true
		}
	}
	if cur, tot := env.PageInfo.current(), env.PageInfo.total(); cur > 0 && tot > 0 && cur < tot {
		return cur + 1, true
	}
	if env.Links != nil && truthy(env.Links.Next) {
		return current + 1, true
	}
	return 0, false
}

// truthy reports whether a raw JSON value would be treated as set: anything
// but absent, null, false, 0, or an empty string/array/object.
func truthy(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	switch string(v) {
	case "", "null", "false", "0", `""`, "[]", "{}":
		return false
	}
	return true
}

// Rows extracts summary rows from the envelope's data or results key,
// whichever is populated first. Entries that are not JSON objects are
// silently skipped. A populated key that is not an array is a format error.
func (e *SearchEnvelope) Rows() ([]SummaryRow, error) {
	raw := e.Data
	if !truthy(raw) {
		raw = e.Results
	}
	if !truthy(raw) {
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, eris.New("comptroller: unexpected search response format: row list is not an array")
	}

	rows := make([]SummaryRow, 0, len(items))
	for _, item := range items {
		var row SummaryRow
		if err := json.Unmarshal(item, &row); err != nil || row == nil {
			continue // non-object entry
		}
		rows = append(rows, row)
	}
	return rows, nil
}
