/*
fixmessage — FIX message parsing and validation
Copyright (C) 2025 Steve Clarke <stephenlclarke@mac.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.

In accordance with section 13 of the AGPL, if you modify this program,
your modified version must prominently offer all users interacting with it
remotely through a computer network an opportunity to receive the source
code of your version.
*/
package decoder

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/stephenlclarke/fixmessage/message"
)

// ListTags prints every known tag with its name, marking the standard
// header tags that Parse requires. With column set the list is laid out in
// columns that fit the terminal.
func ListTags(out io.Writer, column bool) {
	tags := message.KnownTags()
	sortTags(tags)

	items := lo.Map(tags, func(tag string, _ int) string {
		return fmt.Sprintf("%4s: %s%s", tag, message.TagName(tag), formatRequired(tag))
	})

	if column {
		PrintStringColumns(out, items, getTerminalWidth())
		return
	}

	for _, item := range items {
		fmt.Fprintln(out, item)
	}
}

// PrintStringColumns prints items down then across in as many columns as fit in width.
func PrintStringColumns(out io.Writer, items []string, width int) {
	if len(items) == 0 {
		return
	}

	maxLen := 0
	for _, s := range items {
		if len(s) > maxLen {
			maxLen = len(s)
		}
	}

	cols := width / (maxLen + 2)
	if cols == 0 {
		cols = 1
	}

	rows := (len(items) + cols - 1) / cols

	for r := 0; r < rows; r++ {
		var line strings.Builder
		for c := 0; c < cols; c++ {
			i := c*rows + r

			if i < len(items) {
				fmt.Fprintf(&line, "%-*s", maxLen+2, items[i])
			}
		}

		fmt.Fprintln(out, strings.TrimRight(line.String(), " "))
	}
}

func formatRequired(tag string) string {
	if message.IsRequired(tag) {
		return " - (Y)"
	}

	return ""
}

// sortTags orders numerically; all known tags are numbers.
func sortTags(tags []string) {
	sort.Slice(tags, func(i, j int) bool {
		a, _ := strconv.Atoi(tags[i])
		b, _ := strconv.Atoi(tags[j])
		return a < b
	})
}
