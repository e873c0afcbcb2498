package sheet

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/smallbiznis/payslip/internal/cache"
	"github.com/smallbiznis/payslip/internal/config"
	"github.com/smallbiznis/payslip/internal/payroll/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const maxDownloadBytes = 64 << 20

type FetcherParams struct {
	fx.In

	Config config.Config
	Cache  cache.BytesCache
	Log    *zap.Logger
	Client *http.Client `optional:"true"`
}

// Fetcher downloads exports published at a URL, such as a spreadsheet
// export link, and caches the raw bytes.
type Fetcher struct {
	client *http.Client
	cache  cache.BytesCache
	ttl    time.Duration
	limit  int64
	log    *zap.Logger
}

func NewFetcher(p FetcherParams) *Fetcher {
	client := p.Client
	if client == nil {
		client = &http.Client{Timeout: p.Config.FetchTimeout}
	}
	store := p.Cache
	if store == nil {
		store = cache.NewNoop()
	}
	return &Fetcher{
		client: client,
		cache:  store,
		ttl:    p.Config.Cache.TTL,
		limit:  maxDownloadBytes,
		log:    p.Log.Named("sheet.fetcher"),
	}
}

// Fetch returns the body served at rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, domain.ErrSourceNotAvailable
	}
	key := cacheKey(rawURL)

	if data, ok, err := f.cache.Get(ctx, key); err != nil {
		f.log.Warn("export cache read failed", zap.Error(err))
	} else if ok {
		f.log.Debug("export served from cache", zap.String("url", redact(rawURL)))
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceNotAvailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrSourceNotAvailable, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, f.limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > f.limit {
		return nil, fmt.Errorf("%w: %w: larger than %d bytes", domain.ErrSourceNotAvailable, ErrExportTooLarge, f.limit)
	}

	if err := f.cache.Set(ctx, key, data, f.ttl); err != nil {
		f.log.Warn("export cache write failed", zap.Error(err))
	}
	f.log.Info("export downloaded",
		zap.String("url", redact(rawURL)),
		zap.Int("bytes", len(data)),
	)
	return data, nil
}

// LoadURL downloads and parses an export.
func (f *Fetcher) LoadURL(ctx context.Context, rawURL, sheet string) (domain.Table, error) {
	data, err := f.Fetch(ctx, rawURL)
	if err != nil {
		return domain.Table{}, err
	}
	return Load(FilenameFromURL(rawURL), data, sheet)
}

// FilenameFromURL guesses a workbook filename for format detection. Export
// links without an extension are treated as .xlsx.
func FilenameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "export.xlsx"
	}
	if format := strings.ToLower(u.Query().Get("format")); format == "xls" || format == "xlsx" {
		return "export." + format
	}
	name := path.Base(u.Path)
	switch strings.ToLower(path.Ext(name)) {
	case ".xls", ".xlsx":
		return name
	default:
		return "export.xlsx"
	}
}

func cacheKey(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(sum[:])
}

// redact drops the query string, which may carry access tokens.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	u.RawQuery = ""
	return u.String()
}
