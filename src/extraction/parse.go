package extraction

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAmount converts an amount in Italian locale formatting to a float.
// The dot is the thousands separator and the comma the decimal separator:
// "1.234,56" parses to 1234.56.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "€", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return v, nil
}

// ParseCount parses an installment count.
func ParseCount(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid count %q: %w", s, err)
	}
	return v, nil
}
