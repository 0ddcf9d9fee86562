package validation

import (
	_ "embed"
	"regexp"
	"strings"
	"unicode"
)

// Password rule codes.
const (
	CodePasswordTooShort = "password_too_short"
	CodePasswordNumeric  = "password_entirely_numeric"
	CodePasswordSimilar  = "password_too_similar"
	CodePasswordCommon   = "password_too_common"
	CodePasswordMismatch = "password_mismatch"
)

//go:embed common_passwords.txt
var commonPasswordsRaw string

var wordSplitRe = regexp.MustCompile(`\W+`)

// PasswordPolicy checks password strength against length, numeric-only, attribute similarity
// and a common-password list.
type PasswordPolicy struct {
	MinLength     int
	MaxSimilarity float64
	common        map[string]struct{}
}

// DefaultPasswordPolicy returns the policy with minimum length 8 and similarity threshold 0.7.
func DefaultPasswordPolicy() *PasswordPolicy {
	common := make(map[string]struct{})
	for _, line := range strings.Split(commonPasswordsRaw, "\n") {
		line = strings.TrimSpace(strings.ToLower(line))
		if line != "" {
			common[line] = struct{}{}
		}
	}
	return &PasswordPolicy{MinLength: 8, MaxSimilarity: 0.7, common: common}
}

// Check returns every violated rule code in a stable order.
// attrs are account attribute values such as username, names and email.
func (p *PasswordPolicy) Check(password string, attrs ...string) []string {
	var codes []string
	if len([]rune(password)) < p.MinLength {
		codes = append(codes, CodePasswordTooShort)
	}
	if p.tooSimilar(password, attrs) {
		codes = append(codes, CodePasswordSimilar)
	}
	if _, ok := p.common[strings.ToLower(strings.TrimSpace(password))]; ok {
		codes = append(codes, CodePasswordCommon)
	}
	if isNumeric(password) {
		codes = append(codes, CodePasswordNumeric)
	}
	return codes
}

// Validate records the first violated rule under field.
func (p *PasswordPolicy) Validate(field, password string, v Violations, attrs ...string) {
	if codes := p.Check(password, attrs...); len(codes) > 0 {
		v.Add(field, codes[0])
	}
}

func (p *PasswordPolicy) tooSimilar(password string, attrs []string) bool {
	pw := strings.ToLower(password)
	for _, attr := range attrs {
		value := strings.ToLower(attr)
		if value == "" {
			continue
		}
		parts := append(wordSplitRe.Split(value, -1), value)
		for _, part := range parts {
			if part == "" {
				continue
			}
			if quickRatio(pw, part) >= p.MaxSimilarity {
				return true
			}
		}
	}
	return false
}

// quickRatio is an upper bound on sequence similarity: 2*M/T where M counts the characters
// the two strings share as multisets and T is their combined length.
func quickRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	avail := make(map[rune]int, len(rb))
	for _, r := range rb {
		avail[r]++
	}
	matches := 0
	for _, r := range ra {
		if avail[r] > 0 {
			avail[r]--
			matches++
		}
	}
	return 2 * float64(matches) / float64(total)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
