package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	invoicedomain "github.com/smallbiznis/invara/internal/invoice/domain"
)

var (
	numberPadRe   = regexp.MustCompile(`\{NUMBER:(0+)\}`)
	customerPadRe = regexp.MustCompile(`\{CUSTOMER:([1-9]\d*)\}`)
)

// PreviewCustomerCode is substituted for {CUSTOMER} tokens in previews.
const PreviewCustomerCode = "CUST"

// Generate renders an invoice number from a pattern. Each token is
// substituted once, independent of where it sits in the pattern:
//
//	{YEAR}        4-digit year        {YEAR:yy}     2-digit year
//	{MONTH}       unpadded month      {MONTH:00}    2-digit month
//	{NUMBER}      unpadded sequence   {NUMBER:0..0} sequence padded to the
//	                                  width of the zero run in the pattern
//	{CUSTOMER}    customer code       {CUSTOMER:n}  first n characters
//
// Customer tokens are only substituted when a code is supplied; the
// sequence must be positive.
//
// This function is pure: no side effects, fully deterministic.
func Generate(pattern string, sequence int64, date time.Time, customerCode string) (string, error) {
	if strings.TrimSpace(pattern) == "" {
		return "", invoicedomain.ErrEmptyPattern
	}
	if sequence <= 0 {
		return "", invoicedomain.ErrInvalidSequence
	}

	out := pattern

	// Longer token forms first so the short forms never clip them.
	out = strings.ReplaceAll(out, "{YEAR:yy}", date.Format("06"))
	out = strings.ReplaceAll(out, "{YEAR}", date.Format("2006"))
	out = strings.ReplaceAll(out, "{MONTH:00}", date.Format("01"))
	out = strings.ReplaceAll(out, "{MONTH}", strconv.Itoa(int(date.Month())))

	out = numberPadRe.ReplaceAllStringFunc(out, func(token string) string {
		match := numberPadRe.FindStringSubmatch(token)
		if len(match) != 2 {
			return token
		}
		return fmt.Sprintf("%0*d", len(match[1]), sequence)
	})
	out = strings.ReplaceAll(out, "{NUMBER}", strconv.FormatInt(sequence, 10))

	if code := strings.ToUpper(strings.TrimSpace(customerCode)); code != "" {
		out = customerPadRe.ReplaceAllStringFunc(out, func(token string) string {
			match := customerPadRe.FindStringSubmatch(token)
			if len(match) != 2 {
				return token
			}
			width, err := strconv.Atoi(match[1])
			if err != nil {
				return token
			}
			if width > len(code) {
				width = len(code)
			}
			return code[:width]
		})
		out = strings.ReplaceAll(out, "{CUSTOMER}", code)
	}

	return out, nil
}

// ValidatePattern reports whether the pattern contains at least one
// recognized token.
func ValidatePattern(pattern string) bool {
	for _, token := range []string{"{YEAR}", "{YEAR:yy}", "{MONTH}", "{MONTH:00}", "{NUMBER}", "{CUSTOMER}"} {
		if strings.Contains(pattern, token) {
			return true
		}
	}
	return numberPadRe.MatchString(pattern) || customerPadRe.MatchString(pattern)
}

// Preview formats the pattern with sequence 1 and a placeholder customer
// code, for showing what a configured pattern will produce.
func Preview(pattern string, now time.Time) (string, error) {
	return Generate(pattern, 1, now, PreviewCustomerCode)
}
