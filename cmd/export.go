package main

import (
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/comptroller-cli/internal/export"
	"github.com/sells-group/comptroller-cli/pkg/comptroller"
)

var (
	exportName       string
	exportTaxpayerID string
	exportFileNumber string
	exportZip        string
	exportOut        string
	exportPageSize   int
	exportMaxPages   int
	exportRateLimit  float64
	exportTimeout    float64
	exportUserAgent  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Search franchise tax accounts and export matches to CSV",
	Long: `Searches the Texas Comptroller franchise tax account API by exactly one of
--name, --taxpayer-id, or --file-number, fetches the detail record for each hit,
and writes a normalized CSV.

The API cannot filter by ZIP; --zip is applied client-side against the mailing
ZIP of both the summary row and the detail record.

Examples:
  # All accounts matching a name prefix, one page of 50
  comptroller-cli export --name "A1" --page-size 50 --max-pages 1 --out results.csv

  # Single account by taxpayer ID
  comptroller-cli export --taxpayer-id 32066021794 --out results.csv

  # Name search restricted to a ZIP
  comptroller-cli export --name "Acme" --zip 78701 --out results.csv`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		query := comptroller.Query{
			Name:       exportName,
			TaxpayerID: exportTaxpayerID,
			FileNumber: exportFileNumber,
		}
		// Fail before touching the network or the output file.
		if _, err := query.Params(); err != nil {
			return err
		}

		userAgent := cfg.Comptroller.UserAgent
		if cmd.Flags().Changed("user-agent") {
			userAgent = exportUserAgent
		}
		rateLimit := cfg.Comptroller.RateLimitSecs
		if cmd.Flags().Changed("rate-limit") {
			rateLimit = exportRateLimit
		}
		timeout := cfg.Comptroller.TimeoutSecs
		if cmd.Flags().Changed("timeout") {
			timeout = exportTimeout
		}
		pageSize := cfg.Comptroller.PageSize
		if cmd.Flags().Changed("page-size") {
			pageSize = exportPageSize
		}
		maxPages := cfg.Comptroller.MaxPages
		if cmd.Flags().Changed("max-pages") {
			maxPages = exportMaxPages
		}

		client := comptroller.NewClient(
			comptroller.WithBaseURL(cfg.Comptroller.BaseURL),
			comptroller.WithUserAgent(userAgent),
			comptroller.WithMinDelay(time.Duration(rateLimit*float64(time.Second))),
			comptroller.WithTimeout(time.Duration(timeout*float64(time.Second))),
		)

		f, err := os.Create(exportOut)
		if err != nil {
			return eris.Wrap(err, "export: create output file")
		}
		defer f.Close() //nolint:errcheck

		runner := export.Runner{
			Client:    client,
			Query:     query,
			ZipFilter: exportZip,
			PageSize:  pageSize,
			MaxPages:  maxPages,
		}
		if err := runner.Run(ctx, f); err != nil {
			return err
		}

		zap.L().Info("export written", zap.String("path", exportOut))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportName, "name", "", "entity name query (2-50 chars)")
	exportCmd.Flags().StringVar(&exportTaxpayerID, "taxpayer-id", "", "taxpayer ID (9 or 11 digits)")
	exportCmd.Flags().StringVar(&exportFileNumber, "file-number", "", "SOS file number (6-10 digits)")
	exportCmd.Flags().StringVar(&exportZip, "zip", "", "filter results by mailing ZIP")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output CSV path (required)")
	exportCmd.Flags().IntVar(&exportPageSize, "page-size", 0, "page size; enables pagination")
	exportCmd.Flags().IntVar(&exportMaxPages, "max-pages", 0, "max pages to fetch (safety cap)")
	exportCmd.Flags().Float64Var(&exportRateLimit, "rate-limit", 1.0, "seconds between requests (0 disables)")
	exportCmd.Flags().Float64Var(&exportTimeout, "timeout", 30.0, "per-request timeout in seconds")
	exportCmd.Flags().StringVar(&exportUserAgent, "user-agent", comptroller.DefaultUserAgent, "custom User-Agent header")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}
