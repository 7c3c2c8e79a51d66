// Package normalize canonicalizes raw field values from heterogeneous
// source systems. Every function here is best-effort and total: on any
// ambiguity the original value is returned unmodified, never an error.
package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/TheCreditPros/tilores-X-sub005/internal/model"
)

var (
	nonDigit   = regexp.MustCompile(`\D`)
	emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// Generational and professional suffixes stay fully upper-cased.
var upperSuffixes = map[string]bool{
	"II": true, "III": true, "IV": true,
	"JR": true, "SR": true, "PHD": true, "MD": true,
}

// Nobiliary particles stay lower-cased.
var lowerParticles = map[string]bool{
	"de": true, "von": true, "van": true,
	"der": true, "la": true, "le": true,
}

// Fields whose non-null presence marks a record as carrying PII.
var piiFields = map[string]bool{
	model.FieldEmail:     true,
	model.FieldPhone:     true,
	model.FieldCardLast4: true,
	"SSN":                true,
	"DATE_OF_BIRTH":      true,
	"DOB":                true,
	"MAILING_ADDRESS":    true,
	"STREET_ADDRESS":     true,
	"CARD_NUMBER":        true,
}

// Phone formats US phone numbers. 10 digits become (AAA) BBB-CCCC,
// 11 digits with a leading 1 drop the 1 and format the same way, and
// 7 digits become AAA-BBBB. Any other shape is returned unmodified.
func Phone(value string) string {
	digits := nonDigit.ReplaceAllString(value, "")

	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}

	switch len(digits) {
	case 10:
		return fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:])
	case 7:
		return fmt.Sprintf("%s-%s", digits[:3], digits[3:])
	default:
		return value
	}
}

// Email lower-cases, trims, and strips a mailto: prefix. If the result does
// not look like local@domain.tld the original value is returned.
func Email(value string) string {
	e := strings.ToLower(strings.TrimSpace(value))
	e = strings.TrimPrefix(e, "mailto:")
	if !emailShape.MatchString(e) {
		return value
	}
	return e
}

// Name trims and title-cases each whitespace-delimited token, with the
// conventional exceptions: suffixes like JR or III are upper-cased,
// particles like von stay lower-case, O'Brien-style tokens capitalize each
// apostrophe segment, and Mc-prefixed tokens capitalize the remainder.
func Name(value string) string {
	tokens := strings.Fields(strings.TrimSpace(value))
	if len(tokens) == 0 {
		return value
	}
	// cases.Caser carries internal state and is not safe for concurrent
	// use, so each call gets its own.
	caser := cases.Title(language.English)
	for i, tok := range tokens {
		tokens[i] = nameToken(caser, tok)
	}
	return strings.Join(tokens, " ")
}

func nameToken(caser cases.Caser, tok string) string {
	if upperSuffixes[strings.ToUpper(tok)] {
		return strings.ToUpper(tok)
	}
	if lowerParticles[strings.ToLower(tok)] {
		return strings.ToLower(tok)
	}
	if strings.Contains(tok, "'") {
		parts := strings.Split(tok, "'")
		for i, p := range parts {
			parts[i] = caser.String(strings.ToLower(p))
		}
		return strings.Join(parts, "'")
	}
	t := caser.String(strings.ToLower(tok))
	if len(t) > 2 && strings.HasPrefix(t, "Mc") {
		return "Mc" + caser.String(t[2:])
	}
	return t
}

// DetectPII reports whether the record carries a non-null value for any
// known personally-identifiable field.
func DetectPII(record model.RawRecord) bool {
	for field := range piiFields {
		if record.Has(field) {
			return true
		}
	}
	return false
}
