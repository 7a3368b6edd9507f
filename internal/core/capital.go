package core

import "math"

// Capital is the "capital power" summary on the dashboard.
type Capital struct {
	Total  float64 `json:"total"`  // liquid + credit
	Liquid float64 `json:"liquid"` // bank asset balances
	Credit float64 `json:"credit"` // headroom on credit/loan accounts
	Solid  float64 `json:"solid"`  // manual asset plays
	Net    float64 `json:"net"`    // manual net + bank assets - bank debt
}

// ComputeCapital derives the capital summary from the bank account snapshot
// and the manual plays. Credit power only counts accounts with a positive
// credit limit, clamped at zero so maxed-out cards contribute nothing.
//
// Solid is the sum of manual asset plays only. Manual liabilities are
// summed but deliberately absent from every total; that matches the
// shipped dashboard and changing it silently would shift user-visible
// numbers, so it stays until the product call is made.
func ComputeCapital(accounts []BankAccount, plays []ManualTransaction) Capital {
	var liquid, debtTotal, creditPower float64

	for _, acc := range accounts {
		bal := Coerce(acc.Balance)
		if isDebtAccount(acc.Type) {
			debtTotal += bal
			if limit := Coerce(acc.CreditLimit); limit > 0 {
				creditPower += math.Max(limit-bal, 0)
			}
		} else {
			liquid += bal
		}
	}

	var manualAssets, manualLiabs float64
	for _, p := range plays {
		amt := Coerce(p.Amount)
		switch p.Type {
		case PlayAsset:
			manualAssets += amt
		case PlayLiability:
			manualLiabs += amt
		}
	}
	_ = manualLiabs

	return Capital{
		Total:  liquid + creditPower,
		Liquid: liquid,
		Credit: creditPower,
		Solid:  manualAssets,
		Net:    ManualNetWorth(plays) + liquid - debtTotal,
	}
}

// ManualNetWorth reduces the plays to a signed total: asset and income
// count positive, liability and expense negative.
func ManualNetWorth(plays []ManualTransaction) float64 {
	var sum float64
	for _, p := range plays {
		amt := Coerce(p.Amount)
		if p.Type == PlayAsset || p.Type == PlayIncome {
			sum += amt
		} else {
			sum -= amt
		}
	}
	return sum
}
