package validate

import (
	"regexp"
	"strings"
)

var circledNumbers = map[string]string{
	"1": "①", "2": "②", "3": "③", "4": "④", "5": "⑤",
	"6": "⑥", "7": "⑦", "8": "⑧", "9": "⑨", "10": "⑩",
}

var firstNumberRe = regexp.MustCompile(`\d+`)

// MatchAnswerToOption resolves a raw answer token to the exact matching
// option string. Rules, in order: exact match, prefix match ("④" matches
// "④ DDP"), digit-to-circled-glyph conversion followed by the same two.
// No match yields "": an unknown answer, never an error.
func MatchAnswerToOption(answer string, options []string) string {
	if answer == "" {
		return ""
	}
	answer = strings.TrimSpace(answer)

	for _, opt := range options {
		if opt == answer {
			return opt
		}
	}

	for _, opt := range options {
		if strings.HasPrefix(strings.TrimSpace(opt), answer) {
			return opt
		}
	}

	if num := firstNumberRe.FindString(answer); num != "" {
		if symbol, ok := circledNumbers[num]; ok {
			for _, opt := range options {
				if opt == symbol {
					return opt
				}
			}
			for _, opt := range options {
				if strings.HasPrefix(strings.TrimSpace(opt), symbol) {
					return opt
				}
			}
		}
	}

	return ""
}
