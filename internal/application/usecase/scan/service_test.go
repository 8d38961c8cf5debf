package scan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volrank/internal/domain"
)

type fakeMarket struct {
	mu         sync.Mutex
	tradable   domain.TradableSet
	tickers    []domain.Ticker
	symbolsErr error
	tickersErr error
	calls      []string
}

func (f *fakeMarket) TradingSymbols(ctx context.Context) (domain.TradableSet, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "exchangeInfo")
	f.mu.Unlock()
	return f.tradable, f.symbolsErr
}

func (f *fakeMarket) Tickers24h(ctx context.Context) ([]domain.Ticker, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "ticker24h")
	f.mu.Unlock()
	return f.tickers, f.tickersErr
}

type fakeSink struct {
	lines []string
	err   error
}

func (f *fakeSink) WriteLine(line string) error {
	if f.err != nil {
		return f.err
	}
	f.lines = append(f.lines, line)
	return nil
}

type fakeRepo struct {
	saved []*domain.ScanResult
	err   error
}

func (f *fakeRepo) SaveScan(ctx context.Context, scan *domain.ScanResult) error {
	f.saved = append(f.saved, scan)
	return f.err
}

func (f *fakeRepo) Close() error { return nil }

func fixedNow() time.Time { return time.UnixMilli(1700000000000) }

func TestServiceRunExampleScenario(t *testing.T) {
	for _, concurrent := range []bool{false, true} {
		t.Run(fmt.Sprintf("concurrent=%v", concurrent), func(t *testing.T) {
			market := &fakeMarket{
				tradable: domain.NewTradableSet("BTCUSDT", "ETHUSDT"),
				tickers: []domain.Ticker{
					{Symbol: "BTCUSDT", QuoteVolume: 5000000},
					{Symbol: "ETHUSDT", QuoteVolume: 100},
					{Symbol: "XRPUSDT", QuoteVolume: 9999999},
				},
			}
			sink := &fakeSink{}
			repo := &fakeRepo{}
			svc := NewService(ServiceDeps{Market: market, Sink: sink, Repo: repo, Concurrent: concurrent, Now: fixedNow})

			res, err := svc.Run(context.Background(), 1000)
			require.NoError(t, err)

			assert.Equal(t, []string{"BTCUSDT.P"}, sink.lines)
			assert.Equal(t, []domain.Ticker{{Symbol: "BTCUSDT", QuoteVolume: 5000000}}, res.Tickers)
			assert.Equal(t, "BTCUSDT.P", res.Line)
			assert.Equal(t, 1000.0, res.MinQuoteVolume)
			assert.Equal(t, fixedNow(), res.TakenAt)
			require.Len(t, repo.saved, 1)
			assert.Same(t, res, repo.saved[0])
			assert.ElementsMatch(t, []string{"exchangeInfo", "ticker24h"}, market.calls)
		})
	}
}

func TestServiceRunSequentialOrder(t *testing.T) {
	market := &fakeMarket{tradable: domain.NewTradableSet()}
	svc := NewService(ServiceDeps{Market: market, Sink: &fakeSink{}})

	_, err := svc.Run(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"exchangeInfo", "ticker24h"}, market.calls)
}

func TestServiceRunRanksWithTies(t *testing.T) {
	market := &fakeMarket{
		tradable: domain.NewTradableSet("A", "B", "C"),
		tickers: []domain.Ticker{
			{Symbol: "A", QuoteVolume: 50},
			{Symbol: "B", QuoteVolume: 100},
			{Symbol: "C", QuoteVolume: 100},
		},
	}
	sink := &fakeSink{}
	svc := NewService(ServiceDeps{Market: market, Sink: sink, Concurrent: true})

	res, err := svc.Run(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"B.P", "C.P", "A.P"}, res.Symbols)
	assert.Equal(t, []string{"B.P, C.P, A.P"}, sink.lines)
}

func TestServiceRunEmptyResult(t *testing.T) {
	market := &fakeMarket{
		tradable: domain.NewTradableSet("BTCUSDT"),
		tickers:  []domain.Ticker{{Symbol: "BTCUSDT", QuoteVolume: 1}},
	}
	sink := &fakeSink{}
	svc := NewService(ServiceDeps{Market: market, Sink: sink})

	res, err := svc.Run(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{""}, sink.lines)
	assert.Empty(t, res.Symbols)
}

func TestServiceRunFetchErrorWritesNothing(t *testing.T) {
	decodeErr := fmt.Errorf("ticker24h: %w: quoteVolume %q is not a decimal", domain.ErrDecode, "abc")

	tests := []struct {
		name   string
		market *fakeMarket
		want   error
	}{
		{
			name:   "exchange info network error",
			market: &fakeMarket{symbolsErr: fmt.Errorf("exchangeInfo: %w: dial tcp", domain.ErrNetwork)},
			want:   domain.ErrNetwork,
		},
		{
			name:   "malformed quote volume",
			market: &fakeMarket{tradable: domain.NewTradableSet("BTCUSDT"), tickersErr: decodeErr},
			want:   domain.ErrDecode,
		},
	}

	for _, tt := range tests {
		for _, concurrent := range []bool{false, true} {
			t.Run(fmt.Sprintf("%s concurrent=%v", tt.name, concurrent), func(t *testing.T) {
				sink := &fakeSink{}
				repo := &fakeRepo{}
				svc := NewService(ServiceDeps{Market: tt.market, Sink: sink, Repo: repo, Concurrent: concurrent})

				res, err := svc.Run(context.Background(), 0)
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.want), "got %v", err)
				assert.Nil(t, res)
				assert.Empty(t, sink.lines)
				assert.Empty(t, repo.saved)
			})
		}
	}
}

func TestServiceRunRepoErrorIsNotFatal(t *testing.T) {
	market := &fakeMarket{
		tradable: domain.NewTradableSet("BTCUSDT"),
		tickers:  []domain.Ticker{{Symbol: "BTCUSDT", QuoteVolume: 10}},
	}
	sink := &fakeSink{}
	repo := &fakeRepo{err: errors.New("disk full")}
	svc := NewService(ServiceDeps{Market: market, Sink: sink, Repo: repo})

	res, err := svc.Run(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT.P", res.Line)
	assert.Equal(t, []string{"BTCUSDT.P"}, sink.lines)
}

func TestServiceRunSinkError(t *testing.T) {
	market := &fakeMarket{tradable: domain.NewTradableSet()}
	repo := &fakeRepo{}
	svc := NewService(ServiceDeps{Market: market, Sink: &fakeSink{err: errors.New("closed pipe")}, Repo: repo})

	_, err := svc.Run(context.Background(), 0)
	require.Error(t, err)
	assert.Empty(t, repo.saved)
}

func TestServiceRunRequiresDeps(t *testing.T) {
	_, err := NewService(ServiceDeps{}).Run(context.Background(), 0)
	require.Error(t, err)
}
