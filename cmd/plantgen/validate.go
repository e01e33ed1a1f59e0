package main

import (
	"fmt"

	"github.com/fabworks/plantgen/internal/db"
	"github.com/fabworks/plantgen/internal/generate"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check referential integrity of a generated dataset",
		Long:  "Loads all six tables from the configured output database and re-runs every referential-integrity check.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "plantgen.yaml", "path to plantgen config file")
	return cmd
}

func runValidate(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(cmd, configPath)
	if err != nil {
		return err
	}

	gormDB, err := db.Connect(cfg.Output)
	if err != nil {
		return err
	}
	tables, err := db.LoadTables(gormDB)
	if err != nil {
		return err
	}

	violations := generate.ValidateReferentialIntegrity(tables)
	if len(violations) == 0 {
		fmt.Fprintf(out, "OK: %d materials, %d orders, %d events, no violations\n",
			len(tables.Materials), len(tables.Orders), len(tables.Events))
		return nil
	}

	for _, v := range violations {
		fmt.Fprintf(out, "VIOLATION %s\n", v)
	}
	return fmt.Errorf("found %d referential integrity violations", len(violations))
}
