// Package revenue provides revenue amount parsing and the deterministic
// revenue estimator rule tables.
package revenue

import (
	"errors"
	"strings"
)

// ErrUnparseable is returned when a string carries no recognizable amount.
var ErrUnparseable = errors.New("unparseable revenue amount")

// Bracket is a parsed revenue range in whole dollars per month.
// A point amount has Low == High.
type Bracket struct {
	Low  int64
	High int64
}

// Parse parses a free-text dollar amount into whole dollars.
// Accepted forms: "$5000", "5,000", "$10K", "$1.5M", "2B", "10k/mo".
// Suffix multipliers: K=1e3, M=1e6, B=1e9 (case-insensitive).
// This is a PURE function.
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	// Strip trailing period qualifiers such as "/mo", "/month", "/yr".
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(strings.TrimPrefix(s, "$"))
	if s == "" {
		return 0, ErrUnparseable
	}

	multiplier := int64(1)
	switch last := s[len(s)-1]; last {
	case 'k', 'K':
		multiplier = 1_000
		s = s[:len(s)-1]
	case 'm', 'M':
		multiplier = 1_000_000
		s = s[:len(s)-1]
	case 'b', 'B':
		multiplier = 1_000_000_000
		s = s[:len(s)-1]
	}
	if s == "" {
		return 0, ErrUnparseable
	}

	// Parse digits with optional thousands separators and a single
	// fractional part (meaningful only with a suffix multiplier).
	var whole int64
	var frac int64
	var fracDigits int
	var seenDigit, seenDot bool
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
			if seenDot {
				if fracDigits < 9 { // enough precision for any suffix
					frac = frac*10 + int64(c-'0')
					fracDigits++
				}
			} else {
				whole = whole*10 + int64(c-'0')
			}
		case c == ',':
			if seenDot || !seenDigit {
				return 0, ErrUnparseable
			}
		case c == '.':
			if seenDot {
				return 0, ErrUnparseable
			}
			seenDot = true
		default:
			return 0, ErrUnparseable
		}
	}
	if !seenDigit {
		return 0, ErrUnparseable
	}

	amount := whole * multiplier
	if fracDigits > 0 {
		scale := multiplier
		for i := 0; i < fracDigits; i++ {
			scale /= 10
		}
		amount += frac * scale
	}
	return amount, nil
}

// ParseBracket parses a revenue range such as "$5K-$10K" or "$5K–$10K".
// A single amount parses to a degenerate bracket (Low == High).
// This is a PURE function.
func ParseBracket(s string) (Bracket, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}

	parts := splitRange(s)
	switch len(parts) {
	case 1:
		amount, err := Parse(parts[0])
		if err != nil {
			return Bracket{}, err
		}
		return Bracket{Low: amount, High: amount}, nil
	case 2:
		low, err := Parse(parts[0])
		if err != nil {
			return Bracket{}, err
		}
		high, err := Parse(parts[1])
		if err != nil {
			return Bracket{}, err
		}
		if high < low {
			low, high = high, low
		}
		return Bracket{Low: low, High: high}, nil
	default:
		return Bracket{}, ErrUnparseable
	}
}

// splitRange splits on a hyphen or en dash separating two amounts.
func splitRange(s string) []string {
	for _, sep := range []string{"-", "–"} {
		if parts := strings.Split(s, sep); len(parts) == 2 {
			return parts
		}
	}
	return []string{s}
}

// String renders the bracket as "$low-$high/mo" using suffix shorthand.
func (b Bracket) String() string {
	if b.Low == b.High {
		return "$" + formatShort(b.Low) + "/mo"
	}
	return "$" + formatShort(b.Low) + "-$" + formatShort(b.High) + "/mo"
}

// Contains reports whether the amount falls inside the bracket (inclusive).
func (b Bracket) Contains(amount int64) bool {
	return amount >= b.Low && amount <= b.High
}

func formatShort(n int64) string {
	switch {
	case n >= 1_000_000_000 && n%1_000_000_000 == 0:
		return itoa(n/1_000_000_000) + "B"
	case n >= 1_000_000 && n%1_000_000 == 0:
		return itoa(n/1_000_000) + "M"
	case n >= 1_000 && n%1_000 == 0:
		return itoa(n/1_000) + "K"
	default:
		return itoa(n)
	}
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + itoa(-n)
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
