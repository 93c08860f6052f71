package filter

import (
	"fmt"
	"strings"
	"unicode"
)

// Validate rejects constructs a payload filter has no use for: member
// access, indexing, ternaries and function calls. Comparisons, boolean logic
// and integer arithmetic over field names are allowed.
func Validate(cond string) error {
	cond = strings.TrimSpace(cond)
	if cond == "" {
		return nil
	}

	for _, ch := range []rune{'{', '}', '[', ']', ';', ':', '?', '@', '#', '$', '\\', '"', '\''} {
		if strings.ContainsRune(cond, ch) {
			return fmt.Errorf("illegal character %q", ch)
		}
	}

	if strings.Contains(cond, ".") {
		return fmt.Errorf("dot access is not allowed")
	}

	for i := 0; i < len(cond)-1; i++ {
		if cond[i] != '(' {
			continue
		}
		j := i - 1
		for j >= 0 && unicode.IsSpace(rune(cond[j])) {
			j--
		}
		if j < 0 || !(unicode.IsLetter(rune(cond[j])) || unicode.IsDigit(rune(cond[j])) || cond[j] == '_') {
			continue
		}
		k := j
		for k >= 0 && (unicode.IsLetter(rune(cond[k])) || unicode.IsDigit(rune(cond[k])) || cond[k] == '_') {
			k--
		}
		ident := cond[k+1 : j+1]
		if isKeyword(ident) {
			continue
		}
		return fmt.Errorf("function calls are not allowed (found %q(...))", ident)
	}

	return nil
}

func isKeyword(ident string) bool {
	switch ident {
	case "and", "or", "not", "in":
		return true
	}
	return false
}
