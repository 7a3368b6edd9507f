package bank

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateLinkToken(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]string{"link_token": "link-sandbox-123"})
	}))
	defer srv.Close()

	c := NewClient(Endpoints{CreateLinkToken: srv.URL}, srv.Client())
	token, err := c.CreateLinkToken(context.Background(), "u1")
	if err != nil {
		t.Fatalf("create link token: %v", err)
	}
	if token != "link-sandbox-123" {
		t.Fatalf("token = %q", token)
	}
	if gotBody["uid"] != "u1" {
		t.Fatalf("request body = %v", gotBody)
	}
}

func TestExchangePublicTokenSendsBothFields(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(Endpoints{ExchangePublicToken: srv.URL}, srv.Client())
	if err := c.ExchangePublicToken(context.Background(), "u1", "public-xyz"); err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if gotBody["uid"] != "u1" || gotBody["public_token"] != "public-xyz" {
		t.Fatalf("request body = %v", gotBody)
	}
}

func TestAccountsParsesAndCoerces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"accounts":[
			{"id":"a1","name":"Checking","type":"depository","subtype":"checking","mask":"0000","balance":1500.25},
			{"id":"a2","name":"Card","type":"credit","balance":"300","creditLimit":1000},
			{"id":"a3","name":"Weird","type":"depository","balance":{"nested":true}}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(Endpoints{Accounts: srv.URL}, srv.Client())
	accounts, err := c.Accounts(context.Background(), "u1")
	if err != nil {
		t.Fatalf("accounts: %v", err)
	}
	if len(accounts) != 3 {
		t.Fatalf("got %d accounts", len(accounts))
	}
	if accounts[0].Balance != 1500.25 {
		t.Fatalf("balance = %v", accounts[0].Balance)
	}
	if accounts[1].Balance != 300 || accounts[1].CreditLimit != 1000 {
		t.Fatalf("string balance not coerced: %+v", accounts[1])
	}
	if accounts[2].Balance != 0 {
		t.Fatalf("malformed balance should coerce to 0, got %v", accounts[2].Balance)
	}
}

func TestTransactionsParses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"transactions":[
			{"transactionId":"t1","name":"Coffee","date":"2024-01-01","amount":4.5,"category":["Food","Coffee"]},
			{"name":"No id","date":"2024-01-02","amount":-10}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(Endpoints{Transactions: srv.URL}, srv.Client())
	txs, err := c.Transactions(context.Background(), "u1")
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions", len(txs))
	}
	if txs[0].Amount != 4.5 || len(txs[0].Category) != 2 {
		t.Fatalf("tx[0] = %+v", txs[0])
	}
	if txs[1].TransactionID != "" || txs[1].Amount != -10 {
		t.Fatalf("tx[1] = %+v", txs[1])
	}
}

func TestNonSuccessResponseYieldsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "item login required", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(Endpoints{Accounts: srv.URL}, srv.Client())
	_, err := c.Accounts(context.Background(), "u1")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Fatalf("status = %d", apiErr.Status)
	}
	if apiErr.Body == "" {
		t.Fatalf("body should carry the response text")
	}
}

func TestLooseFloat(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{`12.5`, 12.5},
		{`"12.5"`, 12.5},
		{`" 7 "`, 7},
		{`null`, 0},
		{`"abc"`, 0},
		{`[1,2]`, 0},
		{`true`, 0},
	}
	for i, tc := range cases {
		var f looseFloat
		if err := json.Unmarshal([]byte(tc.in), &f); err != nil {
			t.Fatalf("case %d: unexpected error %v", i, err)
		}
		if float64(f) != tc.want {
			t.Fatalf("case %d: %s -> %v, want %v", i, tc.in, float64(f), tc.want)
		}
	}
}
