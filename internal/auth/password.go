package auth

import (
	"bufio"
	"bytes"
	_ "embed"
	"regexp"
	"strings"
	"unicode"

	"tunebox/internal/apperr"
)

//go:embed common_passwords.txt
var commonPasswordList []byte

var attributeSplit = regexp.MustCompile(`\W+`)

// PasswordPolicy decides whether a password is strong enough.
type PasswordPolicy struct {
	MinLength int
	// MaxSimilarity is the highest tolerated overlap ratio between the password and a
	// user attribute, in [0, 1].
	MaxSimilarity float64
	common        map[string]struct{}
}

// DefaultPasswordPolicy returns the policy applied at registration and password change.
func DefaultPasswordPolicy() *PasswordPolicy {
	common := make(map[string]struct{})
	sc := bufio.NewScanner(bytes.NewReader(commonPasswordList))
	for sc.Scan() {
		if w := strings.TrimSpace(sc.Text()); w != "" && !strings.HasPrefix(w, "#") {
			common[strings.ToLower(w)] = struct{}{}
		}
	}
	return &PasswordPolicy{MinLength: 8, MaxSimilarity: 0.7, common: common}
}

// Check returns a validation error listing every rule the password breaks. attrs are
// user attributes (username, email, nickname) the password must not resemble.
func (p *PasswordPolicy) Check(password string, attrs ...string) error {
	var problems []string

	if len([]rune(password)) < p.MinLength {
		problems = append(problems, "This password is too short. It must contain at least 8 characters.")
	}
	if isNumeric(password) {
		problems = append(problems, "This password is entirely numeric.")
	}
	if _, ok := p.common[strings.ToLower(strings.TrimSpace(password))]; ok {
		problems = append(problems, "This password is too common.")
	}
	if attr, ok := p.similarAttribute(password, attrs); ok {
		problems = append(problems, "The password is too similar to the "+attr+".")
	}

	if len(problems) == 0 {
		return nil
	}
	return apperr.ValidationFields(map[string]string{"password": strings.Join(problems, " ")})
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

// similarAttribute compares the password against each attribute and its word parts.
// Attributes are passed as "name=value".
func (p *PasswordPolicy) similarAttribute(password string, attrs []string) (string, bool) {
	pw := strings.ToLower(password)
	for _, attr := range attrs {
		name, value, found := strings.Cut(attr, "=")
		if !found {
			name, value = "user attribute", attr
		}
		value = strings.ToLower(value)
		if value == "" {
			continue
		}
		parts := append(attributeSplit.Split(value, -1), value)
		for _, part := range parts {
			if len(part) < 3 {
				continue
			}
			if quickRatio(pw, part) >= p.MaxSimilarity && similarity(pw, part) >= p.MaxSimilarity {
				return name, true
			}
		}
	}
	return "", false
}

// quickRatio is an upper bound on the similarity of a and b: twice the size of the
// multiset intersection of their characters over their combined length.
func quickRatio(a, b string) float64 {
	total := len([]rune(a)) + len([]rune(b))
	if total == 0 {
		return 1
	}
	avail := make(map[rune]int)
	for _, r := range b {
		avail[r]++
	}
	matches := 0
	for _, r := range a {
		if avail[r] > 0 {
			avail[r]--
			matches++
		}
	}
	return 2 * float64(matches) / float64(total)
}

// similarity is twice the number of characters in the matching blocks of a and b over
// their combined length. Blocks are found by taking the longest common substring and
// recursing on both sides of it.
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchedRunes(ra, rb, 0, len(ra), 0, len(rb))) / float64(total)
}

func matchedRunes(a, b []rune, alo, ahi, blo, bhi int) int {
	i, j, k := longestMatch(a, b, alo, ahi, blo, bhi)
	if k == 0 {
		return 0
	}
	return k + matchedRunes(a, b, alo, i, blo, j) + matchedRunes(a, b, i+k, ahi, j+k, bhi)
}

// longestMatch returns the earliest longest common run a[i:i+k] == b[j:j+k] within
// the given bounds.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (besti, bestj, bestk int) {
	besti, bestj = alo, blo
	prev := make(map[int]int)
	for i := alo; i < ahi; i++ {
		cur := make(map[int]int)
		for j := blo; j < bhi; j++ {
			if a[i] != b[j] {
				continue
			}
			k := prev[j-1] + 1
			cur[j] = k
			if k > bestk {
				besti, bestj, bestk = i-k+1, j-k+1, k
			}
		}
		prev = cur
	}
	return besti, bestj, bestk
}
