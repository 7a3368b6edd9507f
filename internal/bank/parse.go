package bank

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"santi/internal/core"
)

// Wire shapes as the aggregator sends them. Fetched JSON is not trusted:
// numeric fields coerce to 0 and missing strings to empty before anything
// reaches the aggregation logic.

type (
	// looseFloat decodes any JSON value as a float64: numbers as-is,
	// numeric strings parsed, everything else (null, objects, garbage,
	// non-finite) as 0.
	looseFloat float64

	rawAccount struct {
		ID          string     `json:"id"`
		Name        string     `json:"name"`
		Type        string     `json:"type"`
		Subtype     string     `json:"subtype"`
		Mask        string     `json:"mask"`
		Balance     looseFloat `json:"balance"`
		CreditLimit looseFloat `json:"creditLimit"`
	}

	rawTransaction struct {
		TransactionID string     `json:"transactionId"`
		Name          string     `json:"name"`
		Date          string     `json:"date"`
		Amount        looseFloat `json:"amount"`
		Category      []string   `json:"category"`
	}
)

func (f *looseFloat) UnmarshalJSON(data []byte) error {
	*f = 0

	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		var q string
		if err := json.Unmarshal(data, &q); err != nil {
			return nil
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(q), 64); err == nil {
			*f = clamp(v)
		}
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	*f = clamp(v)
	return nil
}

func clamp(v float64) looseFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return looseFloat(v)
}

func (a rawAccount) toAccount() core.BankAccount {
	return core.BankAccount{
		ID:          a.ID,
		Name:        a.Name,
		Type:        a.Type,
		Subtype:     a.Subtype,
		Mask:        a.Mask,
		Balance:     float64(a.Balance),
		CreditLimit: float64(a.CreditLimit),
	}
}

func (t rawTransaction) toTransaction() core.BankTransaction {
	return core.BankTransaction{
		TransactionID: t.TransactionID,
		Name:          t.Name,
		Date:          t.Date,
		Amount:        float64(t.Amount),
		Category:      t.Category,
	}
}
