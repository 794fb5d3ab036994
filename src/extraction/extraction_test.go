package extraction_test

import (
	"testing"

	"rimborso/src/extraction"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    float64
		wantErr bool
	}{
		{
			name: "thousands and decimals",
			in:   "1.234,56",
			want: 1234.56,
		},
		{
			name: "decimals only",
			in:   "89,90",
			want: 89.9,
		},
		{
			name: "plain integer",
			in:   "1200",
			want: 1200,
		},
		{
			name: "euro sign and spaces",
			in:   "€ 2.500,00",
			want: 2500,
		},
		{
			name: "millions",
			in:   "1.234.567,89",
			want: 1234567.89,
		},
		{
			name:    "empty",
			in:      "",
			wantErr: true,
		},
		{
			name:    "not a number",
			in:      "abc",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extraction.ParseAmount(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAmount(%q) expected error, got %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

const sampleContract = `CONTRATTO DI FINANZIAMENTO N. 123456
Intestatario: Mario Rossi
Codice Fiscale: RSSMRA80A01H501U
nato a Roma il 01/01/1980
Importo totale finanziato: € 12.000,00
Numero totale rate: 60
Commissioni di intermediazione: 600,00
Spese di istruttoria: € 300,00
Premio assicurativo: 1.200,00
Costi di attivazione: 150,00`

const sampleStatement = `CONTEGGIO ESTINTIVO
Cliente: Mario Rossi
Data estinzione: 15/06/2024
Rate residue: 24
Storno competenze non maturate: 80,00`

func TestExtractContract(t *testing.T) {
	p := extraction.Extract(sampleContract)

	if p.ClientName == nil || *p.ClientName != "Mario Rossi" {
		t.Errorf("ClientName = %v, want Mario Rossi", deref(p.ClientName))
	}
	if p.FiscalCode == nil || *p.FiscalCode != "RSSMRA80A01H501U" {
		t.Errorf("FiscalCode = %v, want RSSMRA80A01H501U", deref(p.FiscalCode))
	}
	if p.BirthDate == nil || *p.BirthDate != "01/01/1980" {
		t.Errorf("BirthDate = %v, want 01/01/1980", deref(p.BirthDate))
	}
	if p.BirthPlace == nil || *p.BirthPlace != "Roma" {
		t.Errorf("BirthPlace = %v, want Roma", deref(p.BirthPlace))
	}
	if p.FinancedAmount == nil || *p.FinancedAmount != 12000 {
		t.Errorf("FinancedAmount = %v, want 12000", p.FinancedAmount)
	}
	if p.TotalInstallments == nil || *p.TotalInstallments != 60 {
		t.Errorf("TotalInstallments = %v, want 60", p.TotalInstallments)
	}
	if p.ResidualInstallments != nil {
		t.Errorf("ResidualInstallments = %v, want nil", *p.ResidualInstallments)
	}
	if len(p.CostEntries) != 4 {
		t.Fatalf("CostEntries = %v, want 4 entries", p.CostEntries)
	}
	if got := p.TotalCosts(); got != 2250 {
		t.Errorf("TotalCosts() = %v, want 2250", got)
	}
}

func TestExtractStatement(t *testing.T) {
	p := extraction.Extract(sampleStatement)

	if p.ResidualInstallments == nil || *p.ResidualInstallments != 24 {
		t.Errorf("ResidualInstallments = %v, want 24", p.ResidualInstallments)
	}
	if p.SettlementDate == nil || *p.SettlementDate != "15/06/2024" {
		t.Errorf("SettlementDate = %v, want 15/06/2024", deref(p.SettlementDate))
	}
	if p.BankAdjustment == nil || *p.BankAdjustment != 80 {
		t.Errorf("BankAdjustment = %v, want 80", p.BankAdjustment)
	}
}

func TestExtractEmptyText(t *testing.T) {
	p := extraction.Extract("   \n  ")
	if p.ClientName != nil || p.FinancedAmount != nil || len(p.CostEntries) != 0 {
		t.Errorf("Extract on blank text should leave every field unset, got %+v", p)
	}
}

func TestExtractFirstMatchWins(t *testing.T) {
	text := "Numero rate: 48\nDurata del finanziamento: 60 mesi"
	p := extraction.Extract(text)
	if p.TotalInstallments == nil || *p.TotalInstallments != 48 {
		t.Errorf("TotalInstallments = %v, want 48 (first matching rule)", p.TotalInstallments)
	}
}

func TestCostEntriesAreSummedNotOverwritten(t *testing.T) {
	text := "Spese di incasso: 10,00\nSpese di incasso: 10,00\nSpese di incasso: 10,00"
	p := extraction.Extract(text)
	if len(p.CostEntries) != 3 {
		t.Fatalf("CostEntries = %v, want 3 repeated entries", p.CostEntries)
	}
	if got := p.TotalCosts(); got != 30 {
		t.Errorf("TotalCosts() = %v, want 30", got)
	}
}

func TestMergeContractPrecedence(t *testing.T) {
	contract := extraction.Extract("Cliente: Mario Rossi\nNumero rate: 60")
	statement := extraction.Extract("Cliente: M. Rossi\nRate residue: 24\nStorno: 50,00")

	merged := extraction.Merge(contract, statement)

	if merged.ClientName == nil || *merged.ClientName != "Mario Rossi" {
		t.Errorf("ClientName = %v, want contract value Mario Rossi", deref(merged.ClientName))
	}
	if merged.TotalInstallments == nil || *merged.TotalInstallments != 60 {
		t.Errorf("TotalInstallments = %v, want 60", merged.TotalInstallments)
	}
	if merged.ResidualInstallments == nil || *merged.ResidualInstallments != 24 {
		t.Errorf("ResidualInstallments = %v, want statement fallback 24", merged.ResidualInstallments)
	}
	if merged.BankAdjustment == nil || *merged.BankAdjustment != 50 {
		t.Errorf("BankAdjustment = %v, want statement fallback 50", merged.BankAdjustment)
	}
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
