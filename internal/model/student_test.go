package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPrepaidValue(t *testing.T) {
	cases := []struct {
		balance string
		rate    string
		want    string
	}{
		{"10", "70", "700"},
		{"1.5", "60", "90"},
		{"0", "70", "0"},
		{"-2", "50", "0"}, // долг часов в пул не входит
	}

	for _, tc := range cases {
		s := Student{
			Balance:    decimal.RequireFromString(tc.balance),
			HourlyRate: decimal.RequireFromString(tc.rate),
		}
		got := s.PrepaidValue()
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
			"balance=%s rate=%s got=%s", tc.balance, tc.rate, got)
	}
}
