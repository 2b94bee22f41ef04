// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "qstack",
		Short: "Render and inspect qstack query builder output",
	}

	root.PersistentFlags().String("dialect", "pgsql", "target SQL dialect (pgsql, mysql, mssql, sqlite, oci)")
	root.PersistentFlags().String("config", "", "path to a qstack config file (see config.LoadAppConfig); when set, explain runs against a live connection instead of rendering only")
	_ = v.BindPFlag("dialect", root.PersistentFlags().Lookup("dialect"))
	_ = v.BindPFlag("config", root.PersistentFlags().Lookup("config"))
	v.SetEnvPrefix("QSTACK")
	v.AutomaticEnv()

	root.AddCommand(newRenderCmd(v))
	root.AddCommand(newExplainCmd(v))
	root.AddCommand(newDialectsCmd())
	return root
}
