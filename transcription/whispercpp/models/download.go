package models

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/speechkit/httpclient"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/observability"
	"github.com/kbukum/speechkit/resilience"
)

const (
	downloadSuffix       = ".download"
	defaultProgressEvery = 2 * time.Second
)

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithRetry overrides the retry policy applied to whole download attempts.
func WithRetry(cfg resilience.RetryConfig) DownloaderOption {
	return func(d *Downloader) { d.retry = cfg }
}

// WithProgressInterval sets how often progress is logged.
func WithProgressInterval(every time.Duration) DownloaderOption {
	return func(d *Downloader) { d.progressEvery = every }
}

// WithDownloadLogger sets the logger.
func WithDownloadLogger(l *logger.Logger) DownloaderOption {
	return func(d *Downloader) { d.log = l }
}

// WithClient sets the HTTP client used for transfers.
func WithClient(c *httpclient.Client) DownloaderOption {
	return func(d *Downloader) { d.client = c }
}

// Downloader fetches model files into a directory. A transfer is written to
// "<name>.download" and renamed into place only once complete, so a model
// file that exists is always whole.
type Downloader struct {
	client        *httpclient.Client
	retry         resilience.RetryConfig
	progressEvery time.Duration
	log           *logger.Logger
}

// NewDownloader creates a downloader with retrying transfers.
func NewDownloader(opts ...DownloaderOption) (*Downloader, error) {
	d := &Downloader{
		retry:         *httpclient.DefaultRetryConfig(),
		progressEvery: defaultProgressEvery,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.log == nil {
		d.log = logger.Get("whispercpp.download")
	}
	if d.client == nil {
		c, err := httpclient.New(httpclient.Config{Name: "model-download"})
		if err != nil {
			return nil, fmt.Errorf("create download client: %w", err)
		}
		d.client = c
	}
	return d, nil
}

// Download fetches m into destDir and returns the final path. An existing
// complete file is reused.
func (d *Downloader) Download(ctx context.Context, m Model, destDir string) (path string, err error) {
	if m.URL == "" {
		return "", fmt.Errorf("model %q has no download URL", m.Name)
	}
	dest := Path(destDir, m.Name)
	if IsDownloaded(destDir, m.Name) {
		return dest, nil
	}
	if err := os.MkdirAll(destDir, 0o750); err != nil {
		return "", fmt.Errorf("create models directory: %w", err)
	}

	ctx, op := observability.StartOperation(ctx, observability.SpanModelDownload,
		attribute.String(observability.AttrModel, m.Name))
	defer func() { op.End(err) }()

	d.log.Info("downloading model", logger.Fields("model", m.Name, "size", m.Size, "url", m.URL))

	retry := d.retry
	retry.OnRetry = func(attempt int, err error, backoff time.Duration) {
		d.log.Warn("model download failed, retrying", logger.Fields(
			"model", m.Name, "attempt", attempt, "backoff", backoff.String(), "error", err.Error()))
	}

	err = resilience.RetryFunc(ctx, retry, func() error {
		return d.fetch(ctx, m, dest)
	})
	if err != nil {
		return "", fmt.Errorf("download %s: %w", m.Name, err)
	}

	d.log.Info("model downloaded", logger.Fields("model", m.Name, "path", dest))
	return dest, nil
}

func (d *Downloader) fetch(ctx context.Context, m Model, dest string) error {
	resp, err := d.client.DoStream(ctx, httpclient.Request{Method: http.MethodGet, Path: m.URL})
	if err != nil {
		return err
	}
	defer func() { _ = resp.Close() }()

	total := resp.ContentLength()
	if total <= 0 {
		total = m.SizeBytes
	}

	tmp := dest + downloadSuffix
	f, err := os.Create(tmp) // #nosec G304 - path built from the models directory
	if err != nil {
		return resilience.Permanent(fmt.Errorf("create temp file: %w", err))
	}

	pw := &progressWriter{
		w: f, total: total, every: d.progressEvery, last: time.Now(),
		report: func(done, total int64) {
			d.log.Info("downloading", logger.Fields(
				"model", m.Name,
				"progress", fmt.Sprintf("%d%%", percent(done, total)),
				"downloaded", fmt.Sprintf("%d/%d MB", done>>20, total>>20)))
		},
	}
	_, copyErr := io.CopyBuffer(pw, resp.Body, make([]byte, 1<<20))
	closeErr := f.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = os.Remove(tmp)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return httpclient.NewConnectionError(fmt.Errorf("read model body: %w", copyErr))
	}

	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return resilience.Permanent(fmt.Errorf("rename model file: %w", err))
	}
	return nil
}

func percent(done, total int64) int64 {
	if total <= 0 {
		return 0
	}
	p := done * 100 / total
	if p > 100 {
		p = 100
	}
	return p
}

// progressWriter counts bytes and reports at most once per interval.
type progressWriter struct {
	w      io.Writer
	done   int64
	total  int64
	every  time.Duration
	last   time.Time
	report func(done, total int64)
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.done += int64(n)
	if p.report != nil && time.Since(p.last) >= p.every {
		p.report(p.done, p.total)
		p.last = time.Now()
	}
	return n, err
}
