package core

// TrialBalance is the simple accounting view: bank balances split into
// assets and liabilities, combined with the manual net worth.
type TrialBalance struct {
	Assets      float64 `json:"assets"`
	Liabilities float64 `json:"liabilities"`
	CombinedNet float64 `json:"combinedNet"`
}

// ComputeTrialBalance partitions the account snapshot by type (credit and
// loan accounts are liabilities, everything else an asset) and folds in the
// manual net worth.
func ComputeTrialBalance(accounts []BankAccount, manualNet float64) TrialBalance {
	var assets, liabs float64
	for _, acc := range accounts {
		bal := Coerce(acc.Balance)
		if isDebtAccount(acc.Type) {
			liabs += bal
		} else {
			assets += bal
		}
	}
	return TrialBalance{
		Assets:      assets,
		Liabilities: liabs,
		CombinedNet: assets - liabs + Coerce(manualNet),
	}
}
