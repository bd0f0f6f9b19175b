package service

import "github.com/nstrelkov/bookshop/internal/repo"

// computeTotals sums the cart in integer cents. Tax is a basis-point
// rate rounded half-up at the smallest currency unit, so totals are
// exact and reproducible.
func computeTotals(lines []repo.CartLine, taxRateBP int64) (subtotal, tax, total int64) {
	for _, l := range lines {
		subtotal += int64(l.Quantity) * l.UnitPriceCents
	}
	tax = (subtotal*taxRateBP + 5000) / 10000
	total = subtotal + tax
	return subtotal, tax, total
}
