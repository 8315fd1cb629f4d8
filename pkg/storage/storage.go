package storage

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/shamank/spheron-storage-go/pkg/config"
	"github.com/shamank/spheron-storage-go/pkg/model"
	"go.uber.org/zap"
)

// Uploader stores a local file on a decentralized network and returns the
// upload metadata. Progress is reported through the callbacks in model.UploadConfig.
type Uploader interface {
	Upload(ctx context.Context, filePath string, cfg model.UploadConfig) (*model.UploadResult, error)
}

// Fetcher retrieves a JSON document published under a protocol link.
type Fetcher interface {
	FetchJSON(ctx context.Context, protocolLink, fileName string) (model.Fields, error)
}

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
	URL        string
	// Message is the trimmed response body, when the caller chose to read it.
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP error! Status: %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("HTTP error! Status: %d", e.StatusCode)
}

// NewUploader constructs the backend selected by cfg.Backend. cfg must
// already be validated.
func NewUploader(cfg *config.Config) (Uploader, error) {
	timeouts := cfg.Timeouts.WithDefaults()
	httpClient := newHTTPClient(timeouts.Dial)

	switch cfg.Backend {
	case config.BackendSpheron:
		return NewSpheronClient(cfg.Token, cfg.APIURL, cfg.ChunkSize, httpClient), nil
	case config.BackendKubo:
		return NewKuboClient(cfg.IpfsURL, cfg.GatewayURL, httpClient)
	default:
		zap.L().Error("unsupported storage backend", zap.String("backend", string(cfg.Backend)))
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}

// newHTTPClient returns a client whose connection attempts are bounded by
// dialTimeout. Request lifetimes are governed by the caller's context.
func newHTTPClient(dialTimeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   dialTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	return &http.Client{Transport: transport}
}
