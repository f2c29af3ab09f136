package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/comptroller-cli/internal/config"
	"github.com/sells-group/comptroller-cli/pkg/comptroller"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "comptroller-cli",
	Short: "Texas Comptroller franchise tax search export",
	Long:  "Queries the Texas Comptroller franchise tax account search, enriches each hit with its detail record, and exports a normalized CSV.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// A missing query selector is caught before any network activity and
		// gets its own exit code, matching the documented CLI contract.
		if errors.Is(err, comptroller.ErrNoQuery) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
