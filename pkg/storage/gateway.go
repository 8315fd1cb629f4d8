package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shamank/spheron-storage-go/pkg/model"
	"go.uber.org/zap"
)

// GatewayClient reads uploaded files back over plain HTTP from the gateway
// behind a protocol link.
type GatewayClient struct {
	httpClient *http.Client
	timeout    time.Duration
}

// NewGatewayClient returns a gateway reader. A zero timeout leaves the
// deadline to the caller's context.
func NewGatewayClient(httpClient *http.Client, timeout time.Duration) *GatewayClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GatewayClient{httpClient: httpClient, timeout: timeout}
}

// FileURL returns the URL of fileName under protocolLink: "{protocolLink}/{fileName}".
func FileURL(protocolLink, fileName string) string {
	return protocolLink + "/" + fileName
}

// FetchJSON downloads FileURL(protocolLink, fileName) and decodes it into
// ordered rows. A non-2xx response yields a *StatusError and the body is not parsed.
func (g *GatewayClient) FetchJSON(ctx context.Context, protocolLink, fileName string) (model.Fields, error) {
	body, err := GetGatewayFileCtx(ctx, g.httpClient, FileURL(protocolLink, fileName), g.timeout)
	if err != nil {
		return nil, err
	}
	fields, err := model.FieldsFromJSON(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", fileName, err)
	}
	return fields, nil
}

// GetGatewayFileCtx performs a GET on fileURL and returns the body.
//
// The status code is checked before the body is touched: any non-2xx status
// is returned as *StatusError. A positive timeout bounds the whole request.
func GetGatewayFileCtx(ctx context.Context, httpClient *http.Client, fileURL string, timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	zap.L().Debug("getting gateway file", zap.String("url", fileURL))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func(resp *http.Response) {
		if err := resp.Body.Close(); err != nil {
			zap.L().Error("error closing gateway response", zap.String("url", fileURL), zap.Error(err))
		}
	}(resp)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: fileURL}
	}

	file, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return file, nil
}
