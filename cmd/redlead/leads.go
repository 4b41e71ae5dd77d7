package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/calebmills/redlead/internal/store"
	"github.com/calebmills/redlead/internal/tui"
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Browse recorded leads interactively (TUI)",
	Long:  "Lists all leads with their posts; cycle a lead's funnel status with `s`.",
	RunE:  runLeads,
}

func init() {
	rootCmd.AddCommand(leadsCmd)
}

func runLeads(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	sqlStore, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	return tui.RunBrowser(sqlStore)
}
