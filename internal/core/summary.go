package core

import "github.com/shopspring/decimal"

// Summary holds the three totals shown above the table and in reports.
type Summary struct {
	TotalIncoming decimal.Decimal
	TotalOutgoing decimal.Decimal
	Balance       decimal.Decimal
}

// Summarize sums amounts per kind. The empty input yields three zeros.
func Summarize(txs []Transaction) Summary {
	in, out := decimal.Zero, decimal.Zero
	for _, t := range txs {
		switch t.Kind {
		case Incoming:
			in = in.Add(t.Amount)
		case Outgoing:
			out = out.Add(t.Amount)
		}
	}
	return Summary{TotalIncoming: in, TotalOutgoing: out, Balance: in.Sub(out)}
}
