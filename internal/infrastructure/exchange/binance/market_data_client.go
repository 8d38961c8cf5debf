package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"volrank/internal/application/port"
	"volrank/internal/domain"
)

const (
	DefaultRestURL = "https://fapi.binance.com"

	exchangeInfoPath = "/fapi/v1/exchangeInfo"
	ticker24hPath    = "/fapi/v1/ticker/24hr"
)

// MarketDataClient Binance USDⓈ-M futures public REST client
type MarketDataClient struct {
	baseURL    string
	httpClient *http.Client
}

// exchangeInfoResp only the fields we read; pointers detect absent keys
type exchangeInfoResp struct {
	Symbols *[]symbolInfo `json:"symbols"`
}

type symbolInfo struct {
	Symbol *string `json:"symbol"`
	Status *string `json:"status"`
}

// ticker24hResp quoteVolume stays raw and is converted by domain.ParseQuoteVolume
type ticker24hResp struct {
	Symbol      *string `json:"symbol"`
	QuoteVolume *string `json:"quoteVolume"`
}

// NewMarketDataClient creates a client; timeout <= 0 falls back to 10s.
func NewMarketDataClient(baseURL string, timeout time.Duration) *MarketDataClient {
	if baseURL == "" {
		baseURL = DefaultRestURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MarketDataClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// TradingSymbols returns every symbol whose status is TRADING.
func (c *MarketDataClient) TradingSymbols(ctx context.Context) (domain.TradableSet, error) {
	body, err := c.publicGet(ctx, exchangeInfoPath)
	if err != nil {
		return nil, fmt.Errorf("exchangeInfo: %w", err)
	}

	var info exchangeInfoResp
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("exchangeInfo: %w: %v", domain.ErrDecode, err)
	}
	if info.Symbols == nil {
		return nil, fmt.Errorf("exchangeInfo: %w: missing symbols", domain.ErrDecode)
	}

	set := domain.NewTradableSet()
	for i, s := range *info.Symbols {
		if s.Symbol == nil || s.Status == nil {
			return nil, fmt.Errorf("exchangeInfo: %w: symbols[%d] missing symbol or status", domain.ErrDecode, i)
		}
		if *s.Status == domain.StatusTrading {
			set[*s.Symbol] = struct{}{}
		}
	}

	log.Debug().
		Int("symbols", len(*info.Symbols)).
		Int("trading", set.Len()).
		Msg("exchange info fetched")
	return set, nil
}

// Tickers24h returns the 24h ticker snapshot for all symbols.
func (c *MarketDataClient) Tickers24h(ctx context.Context) ([]domain.Ticker, error) {
	body, err := c.publicGet(ctx, ticker24hPath)
	if err != nil {
		return nil, fmt.Errorf("ticker24h: %w", err)
	}

	var rows []ticker24hResp
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("ticker24h: %w: %v", domain.ErrDecode, err)
	}
	if rows == nil {
		return nil, fmt.Errorf("ticker24h: %w: expected array, got null", domain.ErrDecode)
	}

	tickers := make([]domain.Ticker, 0, len(rows))
	for i, r := range rows {
		if r.Symbol == nil || r.QuoteVolume == nil {
			return nil, fmt.Errorf("ticker24h: %w: row %d missing symbol or quoteVolume", domain.ErrDecode, i)
		}
		qv, err := domain.ParseQuoteVolume(*r.QuoteVolume)
		if err != nil {
			return nil, fmt.Errorf("ticker24h %s: %w", *r.Symbol, err)
		}
		tickers = append(tickers, domain.Ticker{Symbol: *r.Symbol, QuoteVolume: qv})
	}

	log.Debug().Int("tickers", len(tickers)).Msg("24h tickers fetched")
	return tickers, nil
}

var _ port.MarketData = (*MarketDataClient)(nil)
