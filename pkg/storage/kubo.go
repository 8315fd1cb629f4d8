package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ipfs/boxo/files"
	"github.com/ipfs/go-cid"
	"github.com/ipfs/kubo/client/rpc"
	"github.com/shamank/spheron-storage-go/pkg/model"
	"go.uber.org/zap"
)

// KuboClient uploads files to an IPFS node through the Kubo RPC API.
// The file is wrapped in a directory so it stays reachable by name under the
// returned protocol link, exactly like a Spheron upload.
type KuboClient struct {
	api        *rpc.HttpApi
	gatewayURL string
	newID      func() string
}

// addEvent is one line of the streamed `ipfs add` response.
type addEvent struct {
	Name  string `json:"Name"`
	Hash  string `json:"Hash"`
	Bytes int64  `json:"Bytes"`
	Size  string `json:"Size"`
}

// NewKuboClient constructs a Kubo RPC client pointed at ipfsURL. Protocol
// links are formed by appending the root CID to gatewayURL.
func NewKuboClient(ipfsURL, gatewayURL string, httpClient *http.Client) (*KuboClient, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	api, err := rpc.NewURLApiWithClient(ipfsURL, httpClient)
	if err != nil {
		zap.L().Error("connection failed to IPFS", zap.String("url", ipfsURL), zap.Error(err))
		return nil, fmt.Errorf("failed to create kubo client for %s: %w", ipfsURL, err)
	}
	return &KuboClient{
		api:        api,
		gatewayURL: strings.TrimRight(gatewayURL, "/"),
		newID:      uuid.NewString,
	}, nil
}

// Upload adds filePath to IPFS with `ipfs add --wrap-with-directory --pin`.
// Kubo has no upload sessions, so the upload ID is generated locally.
func (k *KuboClient) Upload(ctx context.Context, filePath string, cfg model.UploadConfig) (*model.UploadResult, error) {
	if cfg.Protocol != "" && cfg.Protocol != model.ProtocolIPFS {
		return nil, fmt.Errorf("kubo backend does not support protocol %q", cfg.Protocol)
	}
	if k.api == nil {
		return nil, errors.New("ipfs client not configured")
	}

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

	uploadID := k.newID()
	cfg.UploadInitiated(uploadID)

	dir := files.NewMapDirectory(map[string]files.Node{
		filepath.Base(filePath): files.NewReaderFile(f),
	})
	req := k.api.Request("add").
		Option("wrap-with-directory", true).
		Option("pin", true).
		Option("cid-version", 1).
		Option("progress", true).
		Body(files.NewMultiFileReader(dir, true, false))

	resp, err := req.Send(ctx)
	if err != nil {
		zap.L().Error("error uploading to ipfs", zap.Error(err))
		return nil, err
	}
	defer func(resp *rpc.Response) {
		if err := resp.Close(); err != nil {
			zap.L().Error("error closing ipfs response", zap.Error(err))
		}
	}(resp)

	if resp.Error != nil {
		zap.L().Error("ipfs add command returned error", zap.Error(resp.Error))
		return nil, resp.Error
	}

	root, reported, err := readAddEvents(resp.Output, totalSize, cfg)
	if err != nil {
		return nil, err
	}
	if !reported && totalSize > 0 {
		cfg.ChunkUploaded(totalSize, totalSize)
	}

	rootCID, err := cid.Parse(root)
	if err != nil {
		zap.L().Error("error parsing the ipfs hash", zap.String("hash", root), zap.Error(err))
		return nil, fmt.Errorf("invalid root cid %q: %w", root, err)
	}

	zap.L().Debug("successfully uploaded to IPFS", zap.String("cid", rootCID.String()))
	return &model.UploadResult{
		UploadID:     uploadID,
		ProtocolLink: k.gatewayURL + "/" + rootCID.String(),
		DynamicLinks: []string{},
		CID:          rootCID.String(),
	}, nil
}

// readAddEvents consumes the add stream, forwarding progress events, and
// returns the hash of the wrapping directory (the last hashed entry).
func readAddEvents(r io.Reader, totalSize int64, cfg model.UploadConfig) (root string, reported bool, err error) {
	dec := json.NewDecoder(r)
	for {
		var ev addEvent
		if err = dec.Decode(&ev); err == io.EOF {
			break
		}
		if err != nil {
			zap.L().Error("error decoding ipfs add response", zap.Error(err))
			return "", reported, fmt.Errorf("failed to decode ipfs add response: %w", err)
		}
		if ev.Hash == "" {
			if ev.Bytes > 0 {
				cfg.ChunkUploaded(ev.Bytes, totalSize)
				reported = true
			}
			continue
		}
		root = ev.Hash
	}
	if root == "" {
		return "", reported, errors.New("ipfs add returned no hash")
	}
	return root, reported, nil
}
