package extraction

import (
	"strings"
)

// CostEntry is a single itemized cost found in a document, e.g. an
// insurance premium or an activation fee.
type CostEntry struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// FinancialProfile holds the structured fields recovered from one document.
// Every scalar field is a pointer: a field the rules could not find with
// confidence stays nil, it is never guessed.
type FinancialProfile struct {
	ClientName           *string     `json:"client_name,omitempty"`
	FiscalCode           *string     `json:"fiscal_code,omitempty"`
	BirthDate            *string     `json:"birth_date,omitempty"`
	BirthPlace           *string     `json:"birth_place,omitempty"`
	FinancedAmount       *float64    `json:"financed_amount,omitempty"`
	TotalInstallments    *int        `json:"total_installments,omitempty"`
	ResidualInstallments *int        `json:"residual_installments,omitempty"`
	SettlementDate       *string     `json:"settlement_date,omitempty"`
	CostEntries          []CostEntry `json:"cost_entries,omitempty"`
	BankAdjustment       *float64    `json:"bank_adjustment,omitempty"`
}

// TotalCosts sums the itemized cost entries.
func (p FinancialProfile) TotalCosts() float64 {
	var total float64
	for _, e := range p.CostEntries {
		total += e.Amount
	}
	return total
}

// Extract applies the ordered rule table to the plain text of one document.
// For each field the first matching rule wins; cost entries are collected
// globally and appended, never overwritten.
func Extract(text string) FinancialProfile {
	var p FinancialProfile
	if strings.TrimSpace(text) == "" {
		return p
	}

	for _, rule := range fieldRules {
		m := rule.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		rule.apply(&p, m)
	}

	for _, m := range costPattern.FindAllStringSubmatch(text, -1) {
		amount, err := ParseAmount(m[2])
		if err != nil {
			continue
		}
		label := strings.ToLower(strings.TrimSpace(m[1]))
		label = strings.TrimRight(label, ": ")
		p.CostEntries = append(p.CostEntries, CostEntry{Label: label, Amount: amount})
	}

	return p
}

// Merge combines the profiles extracted from the contract and from the
// settlement statement. For every field the contract's value takes
// precedence, falling back to the statement's.
func Merge(contract, statement FinancialProfile) FinancialProfile {
	out := contract
	if out.ClientName == nil {
		out.ClientName = statement.ClientName
	}
	if out.FiscalCode == nil {
		out.FiscalCode = statement.FiscalCode
	}
	if out.BirthDate == nil {
		out.BirthDate = statement.BirthDate
	}
	if out.BirthPlace == nil {
		out.BirthPlace = statement.BirthPlace
	}
	if out.FinancedAmount == nil {
		out.FinancedAmount = statement.FinancedAmount
	}
	if out.TotalInstallments == nil {
		out.TotalInstallments = statement.TotalInstallments
	}
	if out.ResidualInstallments == nil {
		out.ResidualInstallments = statement.ResidualInstallments
	}
	if out.SettlementDate == nil {
		out.SettlementDate = statement.SettlementDate
	}
	if len(out.CostEntries) == 0 {
		out.CostEntries = statement.CostEntries
	}
	if out.BankAdjustment == nil {
		out.BankAdjustment = statement.BankAdjustment
	}
	return out
}

// FillMissing copies values from other into p for every field that is still
// nil. Cost entries are taken from other only when p found none. Used to
// layer AI-suggested values under the rule-extracted ones.
func FillMissing(p, other FinancialProfile) FinancialProfile {
	return Merge(p, other)
}
