package domain

import "testing"

func TestTransactionSigned(t *testing.T) {
	cases := []struct {
		txType string
		amount float64
		want   float64
	}{
		{TxTypeRecharge, 500, 500},
		{TxTypeDailyIncome, 20, 20},
		{TxTypePlanPurchase, 500, -500},
		{TxTypeWithdrawal, 1000, -1000},
	}

	for _, tc := range cases {
		tx := &Transaction{Type: tc.txType, Amount: tc.amount}
		if got := tx.Signed(); got != tc.want {
			t.Errorf("Signed() for %s = %v, want %v", tc.txType, got, tc.want)
		}
	}
}
