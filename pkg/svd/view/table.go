// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package view renders a processed device tree as a terminal register-map
// table: one row per register, columns for its absolute address, size,
// access and reset value, clipped to the caller's terminal width.
package view

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/ARMify-Project/SVDSuite/pkg/svd/ast"
)

// Table is a register-map table ready to print.
type Table struct {
	widths []int
	rows   [][]string
}

var header = []string{"PERIPHERAL", "REGISTER", "ADDRESS", "SIZE", "ACCESS", "RESET"}

// NewTable builds a register-map table from every register in device, in
// peripheral/declaration order.
func NewTable(device *ast.Device) *Table {
	t := &Table{widths: make([]int, len(header))}
	t.addRow(header...)

	for _, p := range device.Peripherals {
		for _, r := range ast.Registers(p.Children) {
			t.addRow(p.Name, r.Name, fmt.Sprintf("0x%08X", r.AbsoluteAddress), sizeText(r.Properties_), accessText(r.Properties_), resetText(r.Properties_))
		}
	}

	return t
}

func sizeText(props ast.RegisterProperties) string {
	if props.Size == nil {
		return "-"
	}

	return fmt.Sprintf("%d", *props.Size)
}

func accessText(props ast.RegisterProperties) string {
	if props.Access == nil {
		return "-"
	}

	return string(*props.Access)
}

func resetText(props ast.RegisterProperties) string {
	if props.ResetValue == nil {
		return "-"
	}

	return fmt.Sprintf("0x%X", *props.ResetValue)
}

func (t *Table) addRow(cols ...string) {
	for i, c := range cols {
		if len(c) > t.widths[i] {
			t.widths[i] = len(c)
		}
	}

	t.rows = append(t.rows, cols)
}

// Print writes the table to w, cutting every line at the width of the
// terminal attached to stdout (falling back to a 120-column limit when
// stdout isn't a terminal, e.g. when piped to a file).
func (t *Table) Print(w io.Writer) {
	maxWidth := terminalWidth()

	for _, row := range t.rows {
		var b strings.Builder

		for i, c := range row {
			fmt.Fprintf(&b, "%-*s", t.widths[i], clip(c, t.widths[i]))

			if i < len(row)-1 {
				b.WriteString(" | ")
			}
		}

		line := b.String()
		if len(line) > maxWidth {
			line = line[:maxWidth]
		}

		fmt.Fprintln(w, line)
	}
}

func clip(s string, width int) string {
	if len(s) <= width {
		return s
	}

	return s[:width]
}

func terminalWidth() int {
	const fallback = 120

	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return fallback
	}

	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return fallback
	}

	return w
}
