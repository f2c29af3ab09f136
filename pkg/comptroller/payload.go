package comptroller

import (
	"strconv"
	"strings"
)

// SummaryRow is one lightweight record from a search result page. The API does
// not guarantee its field set, so it stays a loose map with named accessors;
// unknown fields are ignored.
type SummaryRow map[string]any

// DetailRecord is the richer per-entity record fetched by taxpayer ID.
type DetailRecord map[string]any

// stringField reads a field as a trimmed string. Numeric JSON values (the API
// returns taxpayer IDs both quoted and bare) are rendered without an exponent.
func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// firstField returns the first non-empty value among the given keys.
func firstField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v := stringField(m, k); v != "" {
			return v
		}
	}
	return ""
}

func (r SummaryRow) BusinessName() string { return stringField(r, "businessName") }
func (r SummaryRow) Name() string         { return stringField(r, "name") }
func (r SummaryRow) TaxpayerID() string   { return stringField(r, "taxpayerId") }
func (r SummaryRow) FileNumber() string   { return stringField(r, "fileNumber") }

// MailingZip returns the mailing ZIP, falling back to the bare "zip" key some
// deployments use.
func (r SummaryRow) MailingZip() string {
	return firstField(r, "mailingAddressZip", "zip")
}

func (r SummaryRow) Address() string { return stringField(r, "address") }
func (r SummaryRow) Street() string  { return stringField(r, "mailingAddressStreet") }
func (r SummaryRow) City() string    { return stringField(r, "mailingAddressCity") }
func (r SummaryRow) State() string   { return stringField(r, "mailingAddressState") }
func (r SummaryRow) Zip() string     { return stringField(r, "mailingAddressZip") }

func (d DetailRecord) BusinessName() string  { return stringField(d, "businessName") }
func (d DetailRecord) Name() string          { return stringField(d, "name") }
func (d DetailRecord) TaxpayerID() string    { return stringField(d, "taxpayerId") }
func (d DetailRecord) FileNumber() string    { return stringField(d, "fileNumber") }
func (d DetailRecord) SOSFileNumber() string { return stringField(d, "sosFileNumber") }

// PermitNumber tolerates both the camelCase and snake_case spellings observed
// in detail payloads.
func (d DetailRecord) PermitNumber() string {
	return firstField(d, "permitNumber", "permit_number")
}

func (d DetailRecord) MailingZip() string { return stringField(d, "mailingAddressZip") }

func (d DetailRecord) Address() string { return stringField(d, "address") }
func (d DetailRecord) Street() string  { return stringField(d, "mailingAddressStreet") }
func (d DetailRecord) City() string    { return stringField(d, "mailingAddressCity") }
func (d DetailRecord) State() string   { return stringField(d, "mailingAddressState") }
func (d DetailRecord) Zip() string     { return stringField(d, "mailingAddressZip") }
