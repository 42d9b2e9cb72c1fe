package service

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

var (
	cent      = decimal.New(1, -2) // 0.01, the currency's minimum unit
	hundred   = decimal.NewFromInt(100)
	tolerance = decimal.New(1, -2) // declared sums may be off by at most 0.01
)

// SplitEqually divides total evenly among members. Each member gets the
// per-head amount truncated to cents; leftover cents are handed out one at a
// time in ascending username order, so the shares always sum to total.
func SplitEqually(total decimal.Decimal, members []string) map[string]decimal.Decimal {
	sorted := sortedCopy(members)
	if len(sorted) == 0 {
		return map[string]decimal.Decimal{}
	}

	base := total.Div(decimal.NewFromInt(int64(len(sorted)))).RoundDown(2)
	shares := make(map[string]decimal.Decimal, len(sorted))
	for _, m := range sorted {
		shares[m] = base
	}
	distributeRemainder(total, sorted, shares)
	return shares
}

// SplitByPercentage divides total according to a per-member percentage map.
// Each percentage must lie in [0, 100] and they must sum to 100 within the
// tolerance. Rounding leftovers are reconciled the same way as SplitEqually.
func SplitByPercentage(total decimal.Decimal, percentages map[string]decimal.Decimal) (map[string]decimal.Decimal, error) {
	sum := decimal.Zero
	for m, pct := range percentages {
		if pct.IsNegative() || pct.GreaterThan(hundred) {
			return nil, fmt.Errorf("percentage %s for %s out of range [0, 100]: %w", pct, m, ErrInvalidSplit)
		}
		sum = sum.Add(pct)
	}
	if sum.Sub(hundred).Abs().GreaterThan(tolerance) {
		return nil, fmt.Errorf("percentages sum to %s, want 100: %w", sum, ErrInvalidSplit)
	}

	sorted := sortedKeys(percentages)
	shares := make(map[string]decimal.Decimal, len(sorted))
	for _, m := range sorted {
		shares[m] = total.Mul(percentages[m]).Div(hundred).RoundDown(2)
	}
	distributeRemainder(total, sorted, shares)
	return shares, nil
}

// SplitCustomAmounts takes explicit per-member amounts and verifies they are
// non-negative and add up to total within the tolerance. Amounts are rounded
// to cents.
func SplitCustomAmounts(total decimal.Decimal, amounts map[string]decimal.Decimal) (map[string]decimal.Decimal, error) {
	shares := make(map[string]decimal.Decimal, len(amounts))
	sum := decimal.Zero
	for m, amt := range amounts {
		if amt.IsNegative() {
			return nil, fmt.Errorf("negative amount %s for %s: %w", amt, m, ErrInvalidSplit)
		}
		rounded := amt.Round(2)
		shares[m] = rounded
		sum = sum.Add(rounded)
	}
	if sum.Sub(total).Abs().GreaterThan(tolerance) {
		return nil, fmt.Errorf("amounts sum to %s, want %s: %w", sum, total, ErrInvalidSplit)
	}
	return shares, nil
}

// distributeRemainder tops shares up until they sum exactly to total. Whole
// cents go to members in sorted order, one each; any sub-cent residue left
// by the tolerance window lands on the first member.
func distributeRemainder(total decimal.Decimal, sorted []string, shares map[string]decimal.Decimal) {
	sum := decimal.Zero
	for _, share := range shares {
		sum = sum.Add(share)
	}
	remainder := total.Sub(sum)
	for i := 0; remainder.GreaterThanOrEqual(cent); i++ {
		m := sorted[i%len(sorted)]
		shares[m] = shares[m].Add(cent)
		remainder = remainder.Sub(cent)
	}
	if !remainder.IsZero() {
		shares[sorted[0]] = shares[sorted[0]].Add(remainder)
	}
}

func sortedCopy(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	sort.Strings(out)
	return out
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
