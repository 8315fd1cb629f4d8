package demo

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/shamank/spheron-storage-go/pkg/config"
	"github.com/shamank/spheron-storage-go/pkg/display"
	"github.com/shamank/spheron-storage-go/pkg/model"
	"github.com/shamank/spheron-storage-go/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type uploadCall struct {
	path string
	cfg  model.UploadConfig
}

type fakeUploader struct {
	calls  []uploadCall
	result *model.UploadResult
	err    error
}

func (f *fakeUploader) Upload(_ context.Context, filePath string, cfg model.UploadConfig) (*model.UploadResult, error) {
	f.calls = append(f.calls, uploadCall{path: filePath, cfg: cfg})
	if f.err != nil {
		return nil, f.err
	}
	cfg.UploadInitiated(f.result.UploadID)
	cfg.ChunkUploaded(5, 10)
	cfg.ChunkUploaded(10, 10)
	return f.result, nil
}

type fetchCall struct {
	link string
	name string
}

type fakeFetcher struct {
	calls  []fetchCall
	fields model.Fields
	err    error
}

func (f *fakeFetcher) FetchJSON(_ context.Context, protocolLink, fileName string) (model.Fields, error) {
	f.calls = append(f.calls, fetchCall{link: protocolLink, name: fileName})
	if f.err != nil {
		return nil, f.err
	}
	return f.fields, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{Token: "token"}
	require.NoError(t, cfg.Validate())
	cfg.Timeouts = cfg.Timeouts.WithDefaults()
	return cfg
}

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(restore)
	return logs
}

func TestRun_Success(t *testing.T) {
	logs := observeLogs(t)
	uploader := &fakeUploader{result: &model.UploadResult{
		UploadID:     "up-42",
		BucketID:     "bucket-7",
		ProtocolLink: "https://bafyroot.ipfs.sphn.link",
		DynamicLinks: []string{},
	}}
	fetcher := &fakeFetcher{fields: model.Fields{
		{Key: "name", Value: "Spheron NFT"},
		{Key: "description", Value: "uploaded from go"},
	}}
	var out bytes.Buffer
	cfg := testConfig(t)

	err := NewRunner(cfg, uploader, fetcher, display.NewPrinter(&out)).Run(t.Context())
	require.NoError(t, err)

	require.Len(t, uploader.calls, 1, "upload must be invoked exactly once")
	call := uploader.calls[0]
	assert.Equal(t, "./metadata.json", call.path)
	assert.Equal(t, "metadata upload", call.cfg.Name)
	assert.Equal(t, model.ProtocolIPFS, call.cfg.Protocol)
	assert.NotNil(t, call.cfg.OnUploadInitiated)
	assert.NotNil(t, call.cfg.OnChunkUploaded)

	require.Len(t, fetcher.calls, 1)
	assert.Equal(t, "https://bafyroot.ipfs.sphn.link", fetcher.calls[0].link)
	assert.Equal(t, "metadata.json", fetcher.calls[0].name)
	assert.Equal(t, "https://bafyroot.ipfs.sphn.link/metadata.json",
		storage.FileURL(fetcher.calls[0].link, fetcher.calls[0].name))

	text := out.String()
	ordered := []string{
		"Upload initiated with ID: up-42",
		"Uploaded chunk: 5/10",
		"Uploaded chunk: 10/10",
		"File uploaded successfully with ID: up-42",
		"Upload Information:",
		"bucket-7",
		"Link to the JSON Data uploaded: https://bafyroot.ipfs.sphn.link/metadata.json",
		"Fetched JSON data from the above link:",
		"Spheron NFT",
		"uploaded from go",
	}
	last := -1
	for _, s := range ordered {
		idx := strings.Index(text, s)
		require.GreaterOrEqual(t, idx, 0, "missing %q in output:\n%s", s, text)
		assert.Greater(t, idx, last, "%q printed out of order", s)
		last = idx
	}
	assert.Equal(t, 0, logs.FilterLevelExact(zap.ErrorLevel).Len())
}

func TestRun_UploadError(t *testing.T) {
	logs := observeLogs(t)
	uploader := &fakeUploader{err: errors.New("sdk exploded")}
	fetcher := &fakeFetcher{}
	var out bytes.Buffer

	err := NewRunner(testConfig(t), uploader, fetcher, display.NewPrinter(&out)).Run(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sdk exploded")

	assert.Len(t, uploader.calls, 1)
	assert.Empty(t, fetcher.calls, "fetch must not run after a failed upload")
	assert.Contains(t, out.String(), "Error during the process: failed to upload ./metadata.json: sdk exploded")
	assert.Equal(t, 1, logs.FilterMessage("error during the process").Len())
}

func TestRun_FetchStatusError(t *testing.T) {
	logs := observeLogs(t)
	uploader := &fakeUploader{result: &model.UploadResult{UploadID: "up-1", ProtocolLink: "https://gw/ipfs/cid"}}
	fetcher := &fakeFetcher{err: &storage.StatusError{StatusCode: http.StatusNotFound, URL: "https://gw/ipfs/cid/metadata.json"}}
	var out bytes.Buffer

	err := NewRunner(testConfig(t), uploader, fetcher, display.NewPrinter(&out)).Run(t.Context())
	require.Error(t, err)

	var statusErr *storage.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Contains(t, err.Error(), "404")

	text := out.String()
	assert.Contains(t, text, "Error fetching data from IPFS: HTTP error! Status: 404")
	assert.Contains(t, text, "Error during the process:")
	assert.NotContains(t, text, "Fetched JSON data from the above link:")

	assert.Equal(t, 1, logs.FilterMessage("error fetching data from IPFS").Len())
	assert.Equal(t, 1, logs.FilterMessage("error during the process").Len())
}

func TestRun_FetchUsesUploadedFileName(t *testing.T) {
	observeLogs(t)
	cfg := &config.Config{Token: "token", FilePath: "/data/nft/collection.json"}
	require.NoError(t, cfg.Validate())

	uploader := &fakeUploader{result: &model.UploadResult{UploadID: "u", ProtocolLink: "https://gw/ipfs/cid"}}
	fetcher := &fakeFetcher{fields: model.Fields{}}

	err := NewRunner(cfg, uploader, fetcher, display.NewPrinter(&bytes.Buffer{})).Run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "/data/nft/collection.json", uploader.calls[0].path)
	assert.Equal(t, "collection.json", fetcher.calls[0].name)
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(&config.Config{}, &bytes.Buffer{})
	require.ErrorIs(t, err, config.ErrTokenRequired)
}

func TestNew_AppliesDefaults(t *testing.T) {
	cfg := &config.Config{Token: "token"}
	r, err := New(cfg, &bytes.Buffer{})
	require.NoError(t, err)
	assert.NotNil(t, r)
	assert.IsType(t, &storage.SpheronClient{}, r.uploader)
	assert.NotZero(t, cfg.Timeouts.Upload)
	assert.NotZero(t, cfg.Timeouts.Fetch)
}

func TestConfigureLogger(t *testing.T) {
	restore := zap.ReplaceGlobals(zap.NewNop())
	defer restore()

	require.NoError(t, ConfigureLogger(true))
	assert.True(t, zap.L().Core().Enabled(zap.DebugLevel))

	require.NoError(t, ConfigureLogger(false))
	assert.False(t, zap.L().Core().Enabled(zap.DebugLevel))
}
