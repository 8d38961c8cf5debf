package service

import "volrank/internal/domain"

// FilterTickers keeps tickers that are tradable and whose quote volume is at
// least minQuoteVolume. The boundary is inclusive.
func FilterTickers(tickers []domain.Ticker, tradable domain.TradableSet, minQuoteVolume float64) []domain.Ticker {
	out := make([]domain.Ticker, 0, len(tickers))
	for _, t := range tickers {
		if !tradable.Contains(t.Symbol) {
			continue
		}
		if t.QuoteVolume < minQuoteVolume {
			continue
		}
		out = append(out, t)
	}
	return out
}
