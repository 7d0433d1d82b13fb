package visio

import (
	"strconv"
	"strings"
)

// FormatGrid renders distances as four lines of four numbers, matching the
// physical motor layout
func FormatGrid(d Distances) string {

	var b strings.Builder

	for i, v := range d {
		switch {
		case i == 0:
		case i%4 == 0:
			b.WriteByte('\n')
		default:
			b.WriteString("  ")
		}

		b.WriteString(strconv.FormatUint(uint64(v), 10))
	}

	return b.String()
}
