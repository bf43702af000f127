package coinflip

// SettlementRecord is the money breakdown computed once at the terminal
// frame. All amounts are minor currency units.
type SettlementRecord struct {
	// Taxed is the house cut taken from the winnings.
	Taxed int64

	// ProfitAfterTax is the winner's net gain: wager minus tax.
	ProfitAfterTax int64

	// Payout is the total credited to the winner: both stakes minus tax.
	Payout int64
}

// ComputePayout calculates the settlement amounts for a wager.
// With tax disabled the full pot is paid out; with tax enabled the cut
// is truncated to whole minor units, never exceeding the wager for
// rates up to 100%.
func ComputePayout(wager int64, taxEnabled bool, taxRate float64) SettlementRecord {
	totalPot := wager * 2

	var taxed int64
	if taxEnabled {
		taxed = int64(taxRate * float64(wager) / 100.0)
	}

	return SettlementRecord{
		Taxed:          taxed,
		ProfitAfterTax: wager - taxed,
		Payout:         totalPot - taxed,
	}
}
