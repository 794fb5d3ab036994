// Package letter renders the final demand letter from the uploaded template.
// Substitution is literal and case-sensitive: a placeholder is either present
// and replaced in place, or absent. Templates without the amount placeholder
// get the standard closing paragraph appended instead.
package letter

import (
	"fmt"
	"strings"
)

// Placeholders recognized inside a template.
const (
	AmountPlaceholder = "{{IMPORTO}}"
	NamePlaceholder   = "{{NOME}}"
	DatePlaceholder   = "{{DATA}}"
)

// closingParagraph is appended when the template has no amount placeholder.
const closingParagraph = "Si richiede pertanto il rimborso della quota di costi e commissioni non maturata, " +
	"pari a %s, ai sensi dell'art. 125-sexies del Testo Unico Bancario (D.Lgs. 385/1993)."

// Values holds the resolved values substituted into the template.
type Values struct {
	Amount     string
	ClientName string
	Date       string
}

// Render resolves the template against the given values. The name and date
// placeholders are replaced wherever present; the amount placeholder is
// replaced in place when the template contains it, otherwise the standard
// closing paragraph stating the amount and its legal basis is appended.
func Render(template string, v Values) string {
	out := template
	out = strings.ReplaceAll(out, NamePlaceholder, v.ClientName)
	out = strings.ReplaceAll(out, DatePlaceholder, v.Date)

	if strings.Contains(out, AmountPlaceholder) {
		return strings.ReplaceAll(out, AmountPlaceholder, v.Amount)
	}

	closing := fmt.Sprintf(closingParagraph, v.Amount)
	if strings.TrimSpace(out) == "" {
		return closing
	}
	return strings.TrimRight(out, "\n") + "\n\n" + closing
}

// FormatAmount renders a float as an Italian-formatted euro amount,
// e.g. 1234.5 -> "1.234,50 €".
func FormatAmount(v float64) string {
	s := fmt.Sprintf("%.2f", v)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	parts := strings.SplitN(s, ".", 2)
	intPart, decPart := parts[0], parts[1]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	return sign + b.String() + "," + decPart + " €"
}
