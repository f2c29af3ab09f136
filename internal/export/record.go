// Package export normalizes franchise tax records and writes the CSV output.
package export

import (
	"strings"

	"github.com/sells-group/comptroller-cli/pkg/comptroller"
)

// Record is one flat output row. All fields are optional and render as empty
// strings when absent, never omitted.
type Record struct {
	BusinessName  string `csv:"business_name"`
	Address       string `csv:"address"`
	PermitNumber  string `csv:"permit_number"`
	TaxpayerID    string `csv:"taxpayer_id"`
	SOSFileNumber string `csv:"sos_file_number"`
}

// addressFields is the subset of payload accessors needed to build a mailing
// address. Both SummaryRow and DetailRecord satisfy it.
type addressFields interface {
	Address() string
	Street() string
	City() string
	State() string
	Zip() string
}

// Normalize merges a detail record with its originating summary row. Detail
// fields win; the summary row is only a fallback source.
func Normalize(detail comptroller.DetailRecord, summary comptroller.SummaryRow) Record {
	name := first(detail.BusinessName(), detail.Name(), summary.BusinessName(), summary.Name())
	taxpayerID := first(detail.TaxpayerID(), summary.TaxpayerID())
	sosFileNumber := first(detail.SOSFileNumber(), detail.FileNumber(), summary.FileNumber())

	address := assembleAddress(detail)
	if address == "" {
		address = assembleAddress(summary)
	}

	return Record{
		BusinessName:  name,
		Address:       address,
		PermitNumber:  detail.PermitNumber(),
		TaxpayerID:    taxpayerID,
		SOSFileNumber: sosFileNumber,
	}
}

// assembleAddress prefers a pre-formatted address string; otherwise it joins
// the non-empty street, city, state, and zip components with ", ".
func assembleAddress(src addressFields) string {
	if a := src.Address(); a != "" {
		return a
	}
	var parts []string
	for _, p := range []string{src.Street(), src.City(), src.State(), src.Zip()} {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// first returns the first non-empty value.
func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
