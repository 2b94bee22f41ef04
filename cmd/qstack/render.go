// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRenderCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a query built from flags to SQL text",
		RunE: func(cmd *cobra.Command, args []string) error {
			dialect := v.GetString("dialect")
			q, err := buildQuery(cmd, dialect)
			if err != nil {
				return err
			}
			indent, _ := cmd.Flags().GetInt("indent")
			sqlText, err := q.ToString(indent)
			if err != nil {
				return err
			}
			fmt.Println(sqlText)
			return nil
		},
	}
	addQueryFlags(cmd)
	cmd.Flags().Int("indent", 0, "pretty-print the rendered SQL at this indent level (0 for a single line)")
	return cmd
}
