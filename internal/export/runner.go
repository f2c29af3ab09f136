package export

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/comptroller-cli/pkg/comptroller"
)

// Runner drives a full export: stream summary rows, filter by ZIP, fetch
// details, normalize, write CSV. Strictly sequential; requests are paced by
// the client and detail fetches happen in row order.
type Runner struct {
	Client    comptroller.Client
	Query     comptroller.Query
	ZipFilter string // optional; applied client-side, the API cannot filter by ZIP
	PageSize  int    // optional; enables pagination
	MaxPages  int    // optional safety cap; only effective with PageSize
}

// Run executes the export and writes CSV to out. Any fetch or format error
// aborts the run; only ZIP mismatches and rows without a taxpayer ID are
// skipped.
func (r Runner) Run(ctx context.Context, out io.Writer) error {
	zipFilter := strings.TrimSpace(r.ZipFilter)

	var opts []comptroller.SearchOption
	if r.PageSize > 0 {
		opts = append(opts, comptroller.WithPageSize(r.PageSize))
	}
	if r.MaxPages > 0 {
		opts = append(opts, comptroller.WithMaxPages(r.MaxPages))
	}

	results, err := r.Client.Search(ctx, r.Query, opts...)
	if err != nil {
		return err
	}

	w, err := NewWriter(out)
	if err != nil {
		return err
	}

	var seen, skipped, exported int
	for results.Next() {
		row := results.Row()
		seen++

		// Pre-filter on the summary ZIP before spending a detail request.
		if zipFilter != "" {
			if z := row.MailingZip(); z != "" && z != zipFilter {
				skipped++
				continue
			}
		}
		taxpayerID := row.TaxpayerID()
		if taxpayerID == "" {
			skipped++
			continue
		}

		detail, err := r.Client.FetchDetail(ctx, taxpayerID)
		if err != nil {
			return err
		}
		if zipFilter != "" {
			if z := detail.MailingZip(); z != "" && z != zipFilter {
				skipped++
				continue
			}
		}

		if err := w.Write(Normalize(detail, row)); err != nil {
			return err
		}
		exported++
	}
	if err := results.Err(); err != nil {
		return err
	}

	if err := w.Flush(); err != nil {
		return err
	}

	zap.L().Info("export complete",
		zap.Int("rows", seen),
		zap.Int("skipped", skipped),
		zap.Int("exported", exported),
	)
	return nil
}
