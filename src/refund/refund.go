// Package refund implements the pro-rata temporis refund computation for
// early loan settlement under Art. 125-sexies TUB: the borrower is owed the
// share of up-front costs proportional to the unelapsed contract duration,
// net of any adjustment the lender already applied.
package refund

import (
	"rimborso/src/extraction"
)

// Breakdown is the result of the refund computation.
type Breakdown struct {
	TotalCosts       float64 `json:"total_costs"`
	TotalDuration    int     `json:"total_duration"`
	ResidualDuration int     `json:"residual_duration"`
	BankAdjustment   float64 `json:"bank_adjustment"`
	UnearnedQuota    float64 `json:"unearned_quota"`
	Refund           float64 `json:"refund"`
}

// Compute derives the refund breakdown from an extracted profile.
//
//	unearnedQuota = totalCosts * residualDuration / totalDuration
//	refund        = max(0, unearnedQuota - bankAdjustment)
//
// A zero or unknown total duration is treated as 1 so the ratio degrades
// instead of dividing by zero; an unknown residual duration is treated as 0.
func Compute(p extraction.FinancialProfile) Breakdown {
	b := Breakdown{
		TotalCosts:    p.TotalCosts(),
		TotalDuration: 1,
	}

	if p.TotalInstallments != nil && *p.TotalInstallments > 0 {
		b.TotalDuration = *p.TotalInstallments
	}
	if p.ResidualInstallments != nil && *p.ResidualInstallments > 0 {
		b.ResidualDuration = *p.ResidualInstallments
	}
	if p.BankAdjustment != nil {
		b.BankAdjustment = *p.BankAdjustment
	}

	b.UnearnedQuota = b.TotalCosts * float64(b.ResidualDuration) / float64(b.TotalDuration)

	b.Refund = b.UnearnedQuota - b.BankAdjustment
	if b.Refund < 0 {
		b.Refund = 0
	}

	return b
}
