package utils

import (
	"strconv"
	"strings"
)

// ParseAmount converte um valor monetário textual em float64. Valores vazios
// ou não numéricos contam como zero, nunca como erro.
func ParseAmount(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}

	return value
}
