package core

import (
	"math"
	"testing"
)

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{-5, "$5.00"},
		{0, "$0.00"},
		{math.Copysign(0, -1), "$0.00"},
		{12.345, "$12.35"},
		{-1234.5, "$1234.50"},
		{math.NaN(), "$0.00"},
		{math.Inf(1), "$0.00"},
	}
	for i, tc := range cases {
		if got := FormatMoney(tc.in); got != tc.want {
			t.Fatalf("case %d: FormatMoney(%v) = %q, want %q", i, tc.in, got, tc.want)
		}
	}
}
