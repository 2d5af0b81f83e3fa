package utils

import (
	"strconv"
	"unicode"
)

// IsSeparator checks if a rune is a separator character
func IsSeparator(r rune) bool {
	return r == ' ' || r == '_' || r == '-' || r == '.' || r == '/' || r == '\''
}

// IsOnlyNumbers checks if a string consists entirely of numeric digits
func IsOnlyNumbers(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ContainsSpecialChars checks if a string contains special characters
// (non-alphanumeric characters excluding common separators)
func ContainsSpecialChars(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !IsSeparator(r) {
			return true
		}
	}
	return false
}

// IsRepetitive checks if a string consists of one character repeated 3+ times
func IsRepetitive(s string) bool {
	runes := []rune(s)
	if len(runes) <= 2 {
		return false
	}
	for _, r := range runes[1:] {
		if r != runes[0] {
			return false
		}
	}
	return true
}

// IsValidInput checks if input should be processed for completions.
// Returns false for strings that are only numbers, contain special characters, or are repetitive.
// The empty prefix is valid: it matches the whole dictionary.
func IsValidInput(s string) bool {
	if s == "" {
		return true
	}
	if IsOnlyNumbers(s) {
		return false
	}
	if ContainsSpecialChars(s) {
		return false
	}
	return !IsRepetitive(s)
}

// FormatWithCommas formats an integer with comma separators
func FormatWithCommas(n int64) string {
	str := strconv.FormatInt(n, 10)
	neg := n < 0
	if neg {
		str = str[1:]
	}
	if len(str) <= 3 {
		if neg {
			return "-" + str
		}
		return str
	}
	result := make([]byte, 0, len(str)+len(str)/3+1)
	if neg {
		result = append(result, '-')
	}
	for i := range len(str) {
		if i > 0 && (len(str)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, str[i])
	}
	return string(result)
}

func strconvFloat(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}
