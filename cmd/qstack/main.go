// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

// Command qstack renders qstack query builder output from the command
// line, for quickly checking what a given table/select/where combination
// produces on a given SQL dialect without wiring up a real connection.
package main

import (
	"fmt"
	"os"

	"github.com/kerem/qstack/errors"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errors.PrettyFormat(err))
		os.Exit(1)
	}
}
