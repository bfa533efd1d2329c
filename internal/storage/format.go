package storage

import (
	"strconv"
	"strings"
)

func coordString(c []float64) string {
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = strconv.FormatFloat(v, 'g', 8, 64)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
