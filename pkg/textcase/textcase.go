// Package textcase rewrites identifier-style strings into readable
// Title Case, used to humanize validation messages before they reach
// the client.
package textcase

import (
	"strings"
	"unicode"
)

// Title splits snake_case, kebab-case and camelCase boundaries into
// separate words, capitalizes alphanumeric tokens and keeps punctuation
// tokens verbatim, joining everything with single spaces.
//
//	Title("")          == ""
//	Title("minLength") == "Min Length"
//	Title("user_id-2") == "User Id 2"
func Title(input string) string {
	if input == "" {
		return ""
	}

	tokens := tokenize(input)
	parts := make([]string, 0, len(tokens))
	for _, token := range tokens {
		parts = append(parts, capitalize(token))
	}
	return strings.Join(parts, " ")
}

func tokenize(s string) []string {
	var tokens []string
	runes := []rune(s)

	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r) || r == '_' || r == '-':
			i++
		case unicode.IsDigit(r):
			j := i
			for j < len(runes) && unicode.IsDigit(runes[j]) {
				j++
			}
			tokens = append(tokens, string(runes[i:j]))
			i = j
		case unicode.IsUpper(r):
			j := i + 1
			for j < len(runes) && unicode.IsUpper(runes[j]) {
				j++
			}
			if j < len(runes) && unicode.IsLower(runes[j]) {
				// An uppercase run followed by lowercase lends its last
				// rune to the next word: "HTTPServer" -> "HTTP", "Server".
				if j-i > 1 {
					tokens = append(tokens, string(runes[i:j-1]))
					i = j - 1
				}
				k := i + 1
				for k < len(runes) && unicode.IsLower(runes[k]) {
					k++
				}
				tokens = append(tokens, string(runes[i:k]))
				i = k
			} else {
				tokens = append(tokens, string(runes[i:j]))
				i = j
			}
		case unicode.IsLower(r):
			j := i
			for j < len(runes) && unicode.IsLower(runes[j]) {
				j++
			}
			tokens = append(tokens, string(runes[i:j]))
			i = j
		default:
			tokens = append(tokens, string(r))
			i++
		}
	}
	return tokens
}

func capitalize(token string) string {
	runes := []rune(token)
	if len(runes) == 0 {
		return token
	}
	if !unicode.IsLetter(runes[0]) && !unicode.IsDigit(runes[0]) {
		return token
	}
	lowered := []rune(strings.ToLower(token))
	lowered[0] = unicode.ToUpper(lowered[0])
	return string(lowered)
}
