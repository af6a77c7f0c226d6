// Package coerce turns loosely typed model output into numbers.
package coerce

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var numericToken = regexp.MustCompile(`-?(?:\d+(?:\.\d+)?|\.\d+)`)

// Number converts v to a float. Numbers pass through; strings yield their
// first numeric token after commas are removed ("USD 1,200 million" is
// 1200). Anything else, including NaN and infinities, yields nil. Number
// never panics.
func Number(v any) *float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return String(n.String())
		}
		f = parsed
	case string:
		return String(n)
	case *float64:
		if n == nil {
			return nil
		}
		f = *n
	default:
		return nil
	}
	return finite(f)
}

// String extracts the first numeric token from s. A minus sign counts only
// when it does not follow a letter or digit, so "COVID-19" is 19.
func String(s string) *float64 {
	s = strings.ReplaceAll(s, ",", "")
	loc := numericToken.FindStringIndex(s)
	if loc == nil {
		return nil
	}
	tok := s[loc[0]:loc[1]]
	if tok[0] == '-' && loc[0] > 0 {
		prev, _ := utf8.DecodeLastRuneInString(s[:loc[0]])
		if unicode.IsLetter(prev) || unicode.IsDigit(prev) {
			tok = tok[1:]
		}
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return nil
	}
	return finite(f)
}

// Or returns *p, or def when p is nil.
func Or(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
