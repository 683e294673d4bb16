package llm

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/yargevad/filepathx"
	"golang.org/x/sync/singleflight"
)

// WeightsManager owns the process-wide download/readiness state of the local
// model weights. Triggering a download while one is already in flight is a
// no-op; the singleflight group guards the actual transfer.
type WeightsManager struct {
	dir    string
	url    string
	client *http.Client
	group  singleflight.Group

	mu          sync.Mutex
	downloading bool
	progress    float64
	subscribers []func(LocalStatus)
}

func NewWeightsManager(dir, downloadURL string) *WeightsManager {
	return &WeightsManager{
		dir:    dir,
		url:    downloadURL,
		client: &http.Client{Timeout: 30 * time.Minute},
	}
}

// Readiness reports the current local-backend readiness signal.
func (m *WeightsManager) Readiness() LocalStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.downloading {
		return LocalStatus{State: LocalDownloading, Progress: m.progress}
	}
	if m.weightsPresent() {
		return LocalStatus{State: LocalReady, Progress: 1}
	}
	return LocalStatus{State: LocalNotDownloaded}
}

// Subscribe registers a callback invoked whenever readiness changes. The
// callback must not block.
func (m *WeightsManager) Subscribe(fn func(LocalStatus)) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	m.subscribers = append(m.subscribers, fn)
	m.mu.Unlock()
}

// StartDownload begins fetching the weights unless they are already present
// or a download is in flight. Safe to call concurrently from any goroutine.
func (m *WeightsManager) StartDownload(ctx context.Context) error {
	m.mu.Lock()
	if m.downloading || m.weightsPresent() {
		m.mu.Unlock()
		return nil
	}
	if m.url == "" {
		m.mu.Unlock()
		return fmt.Errorf("weights download URL is not configured")
	}
	m.downloading = true
	m.progress = 0
	m.mu.Unlock()
	m.notify()

	go func() {
		_, err, _ := m.group.Do("weights", func() (interface{}, error) {
			return nil, m.download(ctx)
		})

		m.mu.Lock()
		m.downloading = false
		m.mu.Unlock()
		if err != nil {
			log.Printf("weights: download failed: %v", err)
		}
		m.notify()
	}()

	return nil
}

func (m *WeightsManager) notify() {
	status := m.Readiness()
	m.mu.Lock()
	subs := make([]func(LocalStatus), len(m.subscribers))
	copy(subs, m.subscribers)
	m.mu.Unlock()
	for _, fn := range subs {
		fn(status)
	}
}

// weightsPresent scans the weights directory for a model file. Callers hold mu.
func (m *WeightsManager) weightsPresent() bool {
	matches, err := filepathx.Glob(filepath.Join(m.dir, "**", "*.gguf"))
	if err != nil {
		return false
	}
	return len(matches) > 0
}

func (m *WeightsManager) setProgress(p float64) {
	m.mu.Lock()
	if p > m.progress {
		m.progress = p
	}
	m.mu.Unlock()
}

func (m *WeightsManager) download(ctx context.Context) error {
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return fmt.Errorf("create weights dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.url, nil)
	if err != nil {
		return fmt.Errorf("build weights request: %w", err)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch weights: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch weights: unexpected status %s", resp.Status)
	}

	name := weightsFileName(m.url)
	tmpPath := filepath.Join(m.dir, name+".partial")
	tmp, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp weights file: %w", err)
	}

	reader := io.Reader(resp.Body)
	if resp.ContentLength > 0 {
		reader = &progressReader{
			r:     resp.Body,
			total: resp.ContentLength,
			onProgress: func(frac float64) {
				m.setProgress(frac)
				m.notify()
			},
		}
	}

	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write weights: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close weights file: %w", err)
	}

	finalPath := filepath.Join(m.dir, name)
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("finalize weights file: %w", err)
	}

	m.setProgress(1)
	log.Printf("weights: download complete: %s", finalPath)
	return nil
}

func weightsFileName(rawURL string) string {
	name := "model.gguf"
	parsed, err := url.Parse(rawURL)
	if err == nil {
		if base := filepath.Base(parsed.Path); base != "." && base != "/" && base != "" {
			name = base
		}
	}
	// Readiness scans for *.gguf, so the stored file must carry the extension.
	if !strings.HasSuffix(name, ".gguf") {
		name += ".gguf"
	}
	return name
}

// progressReader reports fractional progress in steps of at least 1% to avoid
// flooding subscribers.
type progressReader struct {
	r          io.Reader
	total      int64
	read       int64
	lastNotify float64
	onProgress func(frac float64)
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	p.read += int64(n)
	if p.total > 0 {
		frac := float64(p.read) / float64(p.total)
		if frac-p.lastNotify >= 0.01 || frac >= 1 {
			p.lastNotify = frac
			p.onProgress(frac)
		}
	}
	return n, err
}
