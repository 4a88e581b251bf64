package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// accentStripper decompõe em NFD, remove as marcas combinantes (acentos) e
// recompõe em NFC
var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName normaliza um nome para comparação: minúsculas e sem espaços
// nas bordas
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// StripAccents remove acentos de uma string ("Vitória" -> "Vitoria")
func StripAccents(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

// FoldName normaliza e remove acentos, para comparações insensíveis a caixa
// e a acentuação
func FoldName(name string) string {
	return StripAccents(NormalizeName(name))
}
