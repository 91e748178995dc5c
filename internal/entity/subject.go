package entity

import (
	"regexp"
	"strings"
)

// Subject is one of the closed set of exam subjects. Documents that do not
// match any known subject degrade to the free-form fallback label.
type Subject string

const (
	TradeRegulations Subject = "무역규범"
	TradePayment     Subject = "무역결제"
	TradeContracts   Subject = "무역계약"
	TradeEnglish     Subject = "무역영어"
	General          Subject = "일반"
)

var allSubjects = []Subject{
	TradeRegulations,
	TradePayment,
	TradeContracts,
	TradeEnglish,
}

// Subjects returns the closed subject vocabulary (fallback label excluded).
func Subjects() []string {
	result := make([]string, len(allSubjects))
	for i, s := range allSubjects {
		result[i] = string(s)
	}
	return result
}

var reSubjectNoise = regexp.MustCompile(`[\s·‧\-_]`)

// NormalizeSubject strips whitespace, interpuncts, hyphens and underscores and
// lowercases, so that label variants key identically during merge.
func NormalizeSubject(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToLower(reSubjectNoise.ReplaceAllString(s, ""))
}
