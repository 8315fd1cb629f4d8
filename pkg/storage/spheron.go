package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shamank/spheron-storage-go/pkg/config"
	"github.com/shamank/spheron-storage-go/pkg/model"
	"go.uber.org/zap"
)

const (
	uploadEndpoint = "/v2/deployment/upload"
	// maxErrorBody caps how much of an error response is kept in StatusError.Message.
	maxErrorBody = 512
)

// SpheronClient uploads files through the Spheron storage HTTP API.
//
// An upload is three steps: the upload is initiated and assigned an ID, the
// file is sent sequentially in ChunkSize pieces, and the upload is finished,
// which returns the protocol link. Nothing is retried.
type SpheronClient struct {
	token      string
	apiURL     string
	chunkSize  int64
	httpClient *http.Client
}

type initiateUploadResponse struct {
	UploadID            string `json:"uploadId"`
	ParallelUploadCount int    `json:"parallelUploadCount"`
	PayloadSize         int64  `json:"payloadSize"`
}

// NewSpheronClient constructs a client authenticated with token. A non-positive
// chunkSize falls back to config.DefaultChunkSize and a nil httpClient to http.DefaultClient.
func NewSpheronClient(token, apiURL string, chunkSize int64, httpClient *http.Client) *SpheronClient {
	if chunkSize <= 0 {
		chunkSize = config.DefaultChunkSize
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &SpheronClient{
		token:      token,
		apiURL:     strings.TrimRight(apiURL, "/"),
		chunkSize:  chunkSize,
		httpClient: httpClient,
	}
}

// Upload sends filePath to the network selected by cfg.Protocol.
func (c *SpheronClient) Upload(ctx context.Context, filePath string, cfg model.UploadConfig) (*model.UploadResult, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer func(f *os.File) {
		if err := f.Close(); err != nil {
			zap.L().Error("failed to close upload file", zap.String("path", filePath), zap.Error(err))
		}
	}(f)

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", filePath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", filePath)
	}
	totalSize := info.Size()

	uploadID, err := c.initiate(ctx, cfg)
	if err != nil {
		return nil, err
	}
	zap.L().Debug("upload initiated", zap.String("uploadId", uploadID), zap.Int64("size", totalSize))
	cfg.UploadInitiated(uploadID)

	fileName := filepath.Base(filePath)
	buf := make([]byte, c.chunkSize)
	var uploaded int64
	for chunk := 0; ; chunk++ {
		n, readErr := io.ReadFull(f, buf)
		if n > 0 {
			if err = c.sendChunk(ctx, uploadID, fileName, chunk, buf[:n]); err != nil {
				return nil, err
			}
			uploaded += int64(n)
			cfg.ChunkUploaded(uploaded, totalSize)
		}
		if errors.Is(readErr, io.EOF) || errors.Is(readErr, io.ErrUnexpectedEOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("failed to read %s: %w", filePath, readErr)
		}
	}

	result, err := c.finish(ctx, uploadID)
	if err != nil {
		return nil, err
	}
	zap.L().Debug("upload finished",
		zap.String("uploadId", result.UploadID),
		zap.String("protocolLink", result.ProtocolLink))
	return result, nil
}

func (c *SpheronClient) initiate(ctx context.Context, cfg model.UploadConfig) (string, error) {
	query := url.Values{}
	query.Set("protocol", cfg.Protocol.String())
	query.Set("name", cfg.Name)

	var resp initiateUploadResponse
	if err := c.post(ctx, uploadEndpoint, query, nil, "", &resp); err != nil {
		return "", fmt.Errorf("failed to initiate upload: %w", err)
	}
	if resp.UploadID == "" {
		return "", errors.New("failed to initiate upload: empty upload id")
	}
	return resp.UploadID, nil
}

func (c *SpheronClient) sendChunk(ctx context.Context, uploadID, fileName string, chunk int, data []byte) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("files", fileName)
	if err != nil {
		return fmt.Errorf("failed to build chunk %d: %w", chunk, err)
	}
	if _, err = part.Write(data); err != nil {
		return fmt.Errorf("failed to build chunk %d: %w", chunk, err)
	}
	if err = mw.Close(); err != nil {
		return fmt.Errorf("failed to build chunk %d: %w", chunk, err)
	}

	query := url.Values{}
	query.Set("chunk", strconv.Itoa(chunk))
	endpoint := uploadEndpoint + "/" + url.PathEscape(uploadID) + "/data"
	if err = c.post(ctx, endpoint, query, &body, mw.FormDataContentType(), nil); err != nil {
		return fmt.Errorf("failed to upload chunk %d: %w", chunk, err)
	}
	return nil
}

func (c *SpheronClient) finish(ctx context.Context, uploadID string) (*model.UploadResult, error) {
	query := url.Values{}
	query.Set("action", "UPLOAD")

	result := &model.UploadResult{}
	endpoint := uploadEndpoint + "/" + url.PathEscape(uploadID) + "/finish"
	if err := c.post(ctx, endpoint, query, nil, "", result); err != nil {
		return nil, fmt.Errorf("failed to finish upload: %w", err)
	}
	if result.UploadID == "" {
		result.UploadID = uploadID
	}
	if result.ProtocolLink == "" {
		return nil, errors.New("failed to finish upload: response has no protocol link")
	}
	return result, nil
}

// post issues an authenticated POST and decodes a JSON response into out
// when out is non-nil.
func (c *SpheronClient) post(ctx context.Context, endpoint string, query url.Values, body io.Reader, contentType string, out any) error {
	target := c.apiURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func(resp *http.Response) {
		if err := resp.Body.Close(); err != nil {
			zap.L().Error("error closing spheron response", zap.String("url", target), zap.Error(err))
		}
	}(resp)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		zap.L().Error("spheron api returned error status",
			zap.String("url", target),
			zap.Int("status", resp.StatusCode))
		return &StatusError{
			StatusCode: resp.StatusCode,
			URL:        target,
			Message:    strings.TrimSpace(string(msg)),
		}
	}

	if out == nil {
		_, err = io.Copy(io.Discard, resp.Body)
		return err
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", target, err)
	}
	return nil
}
