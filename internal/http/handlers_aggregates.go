package http

import (
	"net/http"

	"santi/internal/core"
)

type budgetStatus struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Used         float64 `json:"used"`
	Limit        float64 `json:"limit"`
	UsedPercent  float64 `json:"usedPercent"`
	OverBudget   bool    `json:"overBudget"`
	UsedDisplay  string  `json:"usedDisplay"`
	LimitDisplay string  `json:"limitDisplay"`
}

func (s *Server) handleCapital(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess := sessionFrom(r)
	s.ensureBankSnapshots(r, sess)

	capital := core.ComputeCapital(sess.Accounts(), sess.Plays())
	writeJSON(w, http.StatusOK, map[string]any{
		"capital": capital,
		"display": map[string]string{
			"total":  core.FormatMoney(capital.Total),
			"liquid": core.FormatMoney(capital.Liquid),
			"credit": core.FormatMoney(capital.Credit),
			"solid":  core.FormatMoney(capital.Solid),
			"net":    core.FormatMoney(capital.Net),
		},
	})
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess := sessionFrom(r)

	budgets := core.DefaultBudgets()
	usage := core.ComputeBudgetUsage(sess.Plays(), budgets)

	statuses := make([]budgetStatus, 0, len(budgets))
	for _, b := range budgets {
		used := usage[b.ID]
		statuses = append(statuses, budgetStatus{
			ID:           b.ID,
			Name:         b.Name,
			Used:         used,
			Limit:        b.Limit,
			UsedPercent:  core.UsagePercent(used, b.Limit),
			OverBudget:   core.OverBudget(used, b.Limit),
			UsedDisplay:  core.FormatMoney(used),
			LimitDisplay: core.FormatMoney(b.Limit),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"budgets": statuses})
}

func (s *Server) handleTrialBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess := sessionFrom(r)
	s.ensureBankSnapshots(r, sess)

	manualNet := core.ManualNetWorth(sess.Plays())
	tb := core.ComputeTrialBalance(sess.Accounts(), manualNet)
	writeJSON(w, http.StatusOK, map[string]any{
		"trialBalance": tb,
		"manualNet":    manualNet,
		"display": map[string]string{
			"assets":      core.FormatMoney(tb.Assets),
			"liabilities": core.FormatMoney(tb.Liabilities),
			"combinedNet": core.FormatMoney(tb.CombinedNet),
			"manualNet":   core.FormatMoney(manualNet),
		},
	})
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess := sessionFrom(r)
	s.ensureBankSnapshots(r, sess)

	// The snapshot total counts asset accounts only; credit and loan
	// balances are debt, not funds.
	accounts := sess.Accounts()
	total := core.ComputeTrialBalance(accounts, 0).Assets
	writeJSON(w, http.StatusOK, map[string]any{
		"accounts": accounts,
		"total":    total,
		"display":  map[string]string{"total": core.FormatMoney(total)},
	})
}
