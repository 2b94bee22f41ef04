// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDialectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List supported SQL dialects",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range []string{"pgsql", "mysql", "mssql", "sqlite", "oci"} {
				fmt.Println(name)
			}
			return nil
		},
	}
}
