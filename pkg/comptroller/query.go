package comptroller

import (
	"net/url"

	"github.com/rotisserie/eris"
)

// ErrNoQuery is returned when a Query has no selector set.
var ErrNoQuery = eris.New("comptroller: one of name, taxpayer ID, or file number is required")

// Query selects entities by exactly one criterion. The search API accepts a
// single query parameter; when more than one field is set, precedence is
// Name > TaxpayerID > FileNumber and the rest are ignored.
type Query struct {
	Name       string // entity name (2-50 chars)
	TaxpayerID string // taxpayer ID (9 or 11 digits)
	FileNumber string // SOS file number (6-10 digits)
}

// Params converts the query into search request parameters.
func (q Query) Params() (url.Values, error) {
	params := url.Values{}
	switch {
	case q.Name != "":
		params.Set("name", q.Name)
	case q.TaxpayerID != "":
		params.Set("taxpayerId", q.TaxpayerID)
	case q.FileNumber != "":
		params.Set("fileNumber", q.FileNumber)
	default:
		return nil, ErrNoQuery
	}
	return params, nil
}
