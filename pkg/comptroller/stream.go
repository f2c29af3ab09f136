package comptroller

import (
	"context"
	"net/url"
)

// Results is a lazy, single-pass stream of summary rows across search pages.
// It is not restartable: once Next returns false the stream is exhausted and a
// new Search is needed to read again. Not safe for concurrent use.
//
// Iterate in the rows-scanner style:
//
//	results, err := client.Search(ctx, q, comptroller.WithPageSize(50))
//	for results.Next() {
//	    row := results.Row()
//	    ...
//	}
//	if err := results.Err(); err != nil { ... }
type Results struct {
	ctx    context.Context
	client *httpClient
	params url.Values

	pageSize int
	maxPages int
	page     int // 0 = un-paginated single request

	rows    []SummaryRow
	idx     int
	cur     SummaryRow
	fetched int
	done    bool
	err     error
}

// Next advances to the next summary row, fetching further pages as needed.
// It returns false when the stream is exhausted or a fetch failed; check Err
// afterwards.
func (r *Results) Next() bool {
	for {
		if r.err != nil {
			return false
		}
		if r.idx < len(r.rows) {
			r.cur = r.rows[r.idx]
			r.idx++
			return true
		}
		if r.done {
			return false
		}
		r.fetchPage()
	}
}

// Row returns the row produced by the last successful Next.
func (r *Results) Row() SummaryRow { return r.cur }

// Err returns the first error encountered while streaming.
func (r *Results) Err() error { return r.err }

// fetchPage pulls the next search page into the row buffer and decides whether
// another page should follow. The max-pages cap is a hard upper bound checked
// before the response's own pagination signal.
func (r *Results) fetchPage() {
	env, err := r.client.searchPage(r.ctx, r.params, r.page, r.pageSize)
	if err != nil {
		r.err = err
		r.done = true
		return
	}

	rows, err := env.Rows()
	if err != nil {
		r.err = err
		r.done = true
		return
	}
	r.rows = rows
	r.idx = 0

	r.fetched++
	if r.maxPages > 0 && r.fetched >= r.maxPages {
		r.done = true
		return
	}

	current := r.page
	if current == 0 {
		current = 1
	}
	next, ok := NextPage(env, current)
	if !ok {
		r.done = true
		return
	}
	r.page = next
}
