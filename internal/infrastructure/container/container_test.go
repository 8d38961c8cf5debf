package container

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volrank/internal/application/usecase/scan"
	"volrank/internal/infrastructure/config"
)

type lineSink struct{ lines []string }

func (s *lineSink) WriteLine(line string) error {
	s.lines = append(s.lines, line)
	return nil
}

func TestContainerWithoutStorage(t *testing.T) {
	c, err := New(config.Default())
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.MarketData())
	assert.NotNil(t, c.ScanRepository())
	assert.Equal(t, 0, c.StoreCount())
	assert.Nil(t, c.SQLiteRepo())
}

func TestContainerScanWorkflowWithSQLite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/fapi/v1/exchangeInfo":
			_, _ = w.Write([]byte(`{"symbols":[{"symbol":"BTCUSDT","status":"TRADING"},{"symbol":"ETHUSDT","status":"TRADING"}]}`))
		case "/fapi/v1/ticker/24hr":
			_, _ = w.Write([]byte(`[{"symbol":"BTCUSDT","quoteVolume":"5000000"},{"symbol":"ETHUSDT","quoteVolume":"100"},{"symbol":"XRPUSDT","quoteVolume":"9999999"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Exchange.Binance.RestURL = srv.URL
	cfg.Storage.Enabled = true
	cfg.Storage.SQLite.Enabled = true
	cfg.Storage.SQLite.Path = filepath.Join(t.TempDir(), "scans.db")

	c, err := New(cfg)
	require.NoError(t, err)
	defer c.Close()
	require.Equal(t, 1, c.StoreCount())

	sink := &lineSink{}
	svc := scan.NewService(scan.ServiceDeps{
		Market:     c.MarketData(),
		Sink:       sink,
		Repo:       c.ScanRepository(),
		Concurrent: cfg.Fetch.Concurrent,
	})

	ctx := context.Background()
	_, err = svc.Run(ctx, 1000)
	require.NoError(t, err)
	assert.Equal(t, []string{"BTCUSDT.P"}, sink.lines)

	latest, err := c.SQLiteRepo().LatestScan(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "BTCUSDT.P", latest.Line)
	require.Len(t, latest.Tickers, 1)
	assert.Equal(t, "BTCUSDT", latest.Tickers[0].Symbol)
}

func TestContainerCloseIsIdempotent(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Enabled = true
	cfg.Storage.SQLite.Enabled = true
	cfg.Storage.SQLite.Path = filepath.Join(t.TempDir(), "scans.db")

	c, err := New(cfg)
	require.NoError(t, err)

	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}
