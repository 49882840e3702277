package format

import (
	"fmt"
	"strings"
)

// currencyPattern is a parsed numeral-style currency format such as
// "$0,0.00" or "0,0.00 $": a literal prefix, a numeric core declaring
// grouping and fraction digits, and a literal suffix.
type currencyPattern struct {
	prefix   string
	suffix   string
	grouped  bool
	decimals int
}

func parseCurrencyPattern(pattern string) (currencyPattern, error) {
	start := strings.IndexAny(pattern, "0")
	end := strings.LastIndexAny(pattern, "0")
	if start < 0 {
		return currencyPattern{}, fmt.Errorf("currency format %q has no numeric core", pattern)
	}

	core := pattern[start : end+1]
	p := currencyPattern{
		prefix:  pattern[:start],
		suffix:  pattern[end+1:],
		grouped: strings.Contains(core, ","),
	}

	if dot := strings.Index(core, "."); dot >= 0 {
		p.decimals = len(core) - dot - 1
	}
	return p, nil
}

// dateTokens maps moment.js-style date tokens to Go layout fragments,
// longest first so "MMMM" is not consumed as two "MM"s.
var dateTokens = []struct{ token, layout string }{
	{"dddd", "Monday"},
	{"MMMM", "January"},
	{"YYYY", "2006"},
	{"MMM", "Jan"},
	{"ddd", "Mon"},
	{"DD", "02"},
	{"MM", "01"},
	{"YY", "06"},
	{"D", "2"},
	{"M", "1"},
}

// dateLayoutFromPattern converts a moment.js-style date pattern to a Go
// time layout. The pattern is scanned once, emitting each token's layout
// into the output, so layout fragments are never re-matched as tokens
// ("dddd" emits "Monday" without the "M" then being read as a month).
func dateLayoutFromPattern(pattern string) string {
	if pattern == "" {
		return "January 2, 2006"
	}
	var b strings.Builder
	for i := 0; i < len(pattern); {
		matched := false
		for _, t := range dateTokens {
			if strings.HasPrefix(pattern[i:], t.token) {
				b.WriteString(t.layout)
				i += len(t.token)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(pattern[i])
			i++
		}
	}
	return b.String()
}
