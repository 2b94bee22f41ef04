// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kerem/qstack/config"
	"github.com/kerem/qstack/database"
	"github.com/kerem/qstack/database/sqldb"
)

// newExplainCmd builds an explain command. With no --config flag it prints
// the query's internal clause stack as JSON, the way render does for SQL
// text. With --config pointing at a config.LoadAppConfig-readable file, it
// opens a live connection instead and runs the query text prefixed with
// "EXPLAIN ", printing whatever rows the driver returns.
func newExplainCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Explain a query built from flags: dry-run by default, live with --config",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := v.GetString("config")
			if configPath == "" {
				return explainDryRun(cmd, v.GetString("dialect"))
			}
			return explainLive(cmd, configPath)
		},
	}
	addQueryFlags(cmd)
	return cmd
}

func explainDryRun(cmd *cobra.Command, dialect string) error {
	q, err := buildQuery(cmd, dialect)
	if err != nil {
		return err
	}
	if err := q.Err(); err != nil {
		return err
	}
	out, err := json.MarshalIndent(q.ToArray(true), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func explainLive(cmd *cobra.Command, configPath string) error {
	appCfg, err := config.LoadAppConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := appCfg.Logging.NewLogger()
	if err != nil {
		return fmt.Errorf("configuring logger: %w", err)
	}

	db, err := sqldb.OpenFromConfig(&appCfg.Database, sqldb.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	q, err := buildQueryWithDB(cmd, db.Platform(), db)
	if err != nil {
		return err
	}

	sqlText, err := q.ToString()
	if err != nil {
		return err
	}

	result, err := db.Query("EXPLAIN "+sqlText, database.QueryOptions{Fetch: "array"})
	if err != nil {
		return fmt.Errorf("running EXPLAIN: %w", err)
	}

	out, err := json.MarshalIndent(result.Rows(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
