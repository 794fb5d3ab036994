package extraction

import (
	"regexp"
	"strings"
)

// amountPat matches an amount in Italian locale formatting, where the dot
// is the thousands separator and the comma the decimal separator:
// "1.234,56", "89,90", "1200".
const amountPat = `((?:\d{1,3}(?:\.\d{3})+|\d+)(?:,\d+)?)`

// datePat matches dd/mm/yyyy with the usual separator variants.
const datePat = `(\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4})`

type fieldRule struct {
	field string
	re    *regexp.Regexp
	apply func(p *FinancialProfile, m []string)
}

// fieldRules is the ordered extraction rule table. Rules are tried top to
// bottom; for each field the first rule that matches wins and later rules
// for the same field are no-ops (the setters only fill nil fields).
var fieldRules = []fieldRule{
	{
		field: "client_name",
		re:    regexp.MustCompile(`(?i)(?:intestatario|nome e cognome|cliente)\s*:\s*([^\n]+)`),
		apply: func(p *FinancialProfile, m []string) { setString(&p.ClientName, cleanName(m[1])) },
	},
	{
		field: "client_name",
		re:    regexp.MustCompile(`(?i)il\s+sig\.?(?:ra)?\s+([A-ZÀ-Ö][^\n,(]+)`),
		apply: func(p *FinancialProfile, m []string) { setString(&p.ClientName, cleanName(m[1])) },
	},
	{
		field: "fiscal_code",
		re:    regexp.MustCompile(`(?i)codice\s+fiscale\s*:?\s*([A-Z0-9]{16})`),
		apply: func(p *FinancialProfile, m []string) { setString(&p.FiscalCode, strings.ToUpper(m[1])) },
	},
	{
		field: "birth_date",
		re:    regexp.MustCompile(`(?i)nat[oa]\s+(?:a\s+[^\n,]+?\s+)?il\s+` + datePat),
		apply: func(p *FinancialProfile, m []string) { setString(&p.BirthDate, m[1]) },
	},
	{
		field: "birth_date",
		re:    regexp.MustCompile(`(?i)data\s+di\s+nascita\s*:?\s*` + datePat),
		apply: func(p *FinancialProfile, m []string) { setString(&p.BirthDate, m[1]) },
	},
	{
		field: "birth_place",
		re:    regexp.MustCompile(`(?i)nat[oa]\s+a\s+([^\n,(]+?)(?:\s+il\s|\s*[,(\n]|$)`),
		apply: func(p *FinancialProfile, m []string) { setString(&p.BirthPlace, m[1]) },
	},
	{
		field: "birth_place",
		re:    regexp.MustCompile(`(?i)luogo\s+di\s+nascita\s*:?\s*([^\n,]+)`),
		apply: func(p *FinancialProfile, m []string) { setString(&p.BirthPlace, m[1]) },
	},
	{
		field: "financed_amount",
		re:    regexp.MustCompile(`(?i)importo\s+(?:totale\s+)?(?:del\s+)?finanzia(?:to|mento)\s*:?\s*(?:€|euro)?\s*` + amountPat),
		apply: func(p *FinancialProfile, m []string) { setAmount(&p.FinancedAmount, m[1]) },
	},
	{
		field: "financed_amount",
		re:    regexp.MustCompile(`(?i)capitale\s+finanziato[^\d\n]*` + amountPat),
		apply: func(p *FinancialProfile, m []string) { setAmount(&p.FinancedAmount, m[1]) },
	},
	{
		field: "total_installments",
		re:    regexp.MustCompile(`(?i)numero\s+(?:totale\s+)?(?:di\s+|delle\s+)?rate\s*:?\s*(\d+)`),
		apply: func(p *FinancialProfile, m []string) { setCount(&p.TotalInstallments, m[1]) },
	},
	{
		field: "total_installments",
		re:    regexp.MustCompile(`(?i)\bin\s+(\d+)\s+rate\b`),
		apply: func(p *FinancialProfile, m []string) { setCount(&p.TotalInstallments, m[1]) },
	},
	{
		field: "total_installments",
		re:    regexp.MustCompile(`(?i)durata\s+(?:del\s+finanziamento\s+)?(?:di\s+)?:?\s*(\d+)\s+mesi`),
		apply: func(p *FinancialProfile, m []string) { setCount(&p.TotalInstallments, m[1]) },
	},
	{
		field: "residual_installments",
		re:    regexp.MustCompile(`(?i)rate\s+residue\s*:?\s*(\d+)`),
		apply: func(p *FinancialProfile, m []string) { setCount(&p.ResidualInstallments, m[1]) },
	},
	{
		field: "residual_installments",
		re:    regexp.MustCompile(`(?i)rate\s+(?:non\s+scadute|a\s+scadere)\s*:?\s*(\d+)`),
		apply: func(p *FinancialProfile, m []string) { setCount(&p.ResidualInstallments, m[1]) },
	},
	{
		field: "residual_installments",
		re:    regexp.MustCompile(`(?i)numero\s+rate\s+residue[^\d\n]*(\d+)`),
		apply: func(p *FinancialProfile, m []string) { setCount(&p.ResidualInstallments, m[1]) },
	},
	{
		field: "settlement_date",
		re:    regexp.MustCompile(`(?i)data\s+(?:di\s+)?estinzione\s*:?\s*` + datePat),
		apply: func(p *FinancialProfile, m []string) { setString(&p.SettlementDate, m[1]) },
	},
	{
		field: "settlement_date",
		re:    regexp.MustCompile(`(?i)estinzione\s+anticipata\s+(?:al|del)\s+` + datePat),
		apply: func(p *FinancialProfile, m []string) { setString(&p.SettlementDate, m[1]) },
	},
	{
		field: "settlement_date",
		re:    regexp.MustCompile(`(?i)conteggio\s+(?:estintivo\s+)?al\s+` + datePat),
		apply: func(p *FinancialProfile, m []string) { setString(&p.SettlementDate, m[1]) },
	},
	{
		field: "bank_adjustment",
		re:    regexp.MustCompile(`(?i)storno[^\d\n]*` + amountPat),
		apply: func(p *FinancialProfile, m []string) { setAmount(&p.BankAdjustment, m[1]) },
	},
	{
		field: "bank_adjustment",
		re:    regexp.MustCompile(`(?i)(?:abbuono|rimborso)\s+già\s+(?:riconosciuto|applicato)[^\d\n]*` + amountPat),
		apply: func(p *FinancialProfile, m []string) { setAmount(&p.BankAdjustment, m[1]) },
	},
}

// costPattern matches the repeatable cost items. Every occurrence counts:
// matches are summed into the cost entries, not overwritten.
var costPattern = regexp.MustCompile(
	`(?i)(commission[ei](?:\s+di\s+[a-zà-ù]+|\s+[a-zà-ù]+)?|` +
		`spese\s+(?:di\s+)?[a-zà-ù]+|` +
		`oneri\s+[a-zà-ù]+|` +
		`premio\s+assicurativ[oi]|` +
		`costi?\s+di\s+attivazione|` +
		`imposta\s+di\s+bollo)` +
		`\s*:?\s*(?:€|euro)?\s*` + amountPat)

func setString(dst **string, v string) {
	v = strings.TrimSpace(v)
	if *dst != nil || v == "" {
		return
	}
	*dst = &v
}

func setAmount(dst **float64, raw string) {
	if *dst != nil {
		return
	}
	v, err := ParseAmount(raw)
	if err != nil {
		return
	}
	*dst = &v
}

func setCount(dst **int, raw string) {
	if *dst != nil {
		return
	}
	v, err := ParseCount(raw)
	if err != nil || v < 0 {
		return
	}
	*dst = &v
}

func cleanName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, ".,;")
	return strings.Join(strings.Fields(s), " ")
}
