package service

import (
	"math"
	"slices"

	"volrank/internal/domain"
)

// RankByQuoteVolume returns a copy of tickers sorted by quote volume, highest
// first. Equal volumes keep their input order; NaN goes last.
func RankByQuoteVolume(tickers []domain.Ticker) []domain.Ticker {
	out := slices.Clone(tickers)
	slices.SortStableFunc(out, func(a, b domain.Ticker) int {
		return compareDesc(a.QuoteVolume, b.QuoteVolume)
	})
	return out
}

func compareDesc(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}
