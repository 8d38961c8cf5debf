package port

import (
	"context"

	"volrank/internal/domain"
)

// MarketData is the read-only public market-data surface of an exchange.
type MarketData interface {
	// TradingSymbols returns the symbols currently in TRADING status.
	TradingSymbols(ctx context.Context) (domain.TradableSet, error)
	// Tickers24h returns the 24h ticker snapshot for every instrument.
	Tickers24h(ctx context.Context) ([]domain.Ticker, error)
}
