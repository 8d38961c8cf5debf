package domain

import "time"

// ScanResult is the outcome of one successful run.
type ScanResult struct {
	TakenAt        time.Time
	MinQuoteVolume float64
	Tickers        []Ticker // ranked
	Symbols        []string // formatted, same order as Tickers
	Line           string
}
