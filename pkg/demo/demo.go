// Package demo wires the uploader together: it uploads the configured file,
// prints the upload metadata, fetches the file back through the gateway link
// and prints its contents.
package demo

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/shamank/spheron-storage-go/pkg/config"
	"github.com/shamank/spheron-storage-go/pkg/display"
	"github.com/shamank/spheron-storage-go/pkg/model"
	"github.com/shamank/spheron-storage-go/pkg/storage"
	"go.uber.org/zap"
)

// HeadingText is printed as ASCII art before anything else.
const HeadingText = "Spheron - Storage"

// init configures a default global zap logger. Applications may replace it
// with zap.ReplaceGlobals(...) or ConfigureLogger.
func init() {
	if err := ConfigureLogger(false); err != nil {
		panic(err)
	}
}

// ConfigureLogger installs a console zap logger on stderr as the global
// logger, at debug level when debug is set.
func ConfigureLogger(debug bool) error {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}
	c := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      debug,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := c.Build()
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	return nil
}

// Runner performs one upload-and-fetch round.
type Runner struct {
	config   *config.Config
	uploader storage.Uploader
	fetcher  storage.Fetcher
	printer  *display.Printer
}

// NewRunner builds a Runner from explicit collaborators. cfg must be validated.
func NewRunner(cfg *config.Config, uploader storage.Uploader, fetcher storage.Fetcher, printer *display.Printer) *Runner {
	return &Runner{
		config:   cfg,
		uploader: uploader,
		fetcher:  fetcher,
		printer:  printer,
	}
}

// New validates cfg and builds a Runner backed by the configured storage
// backend and an HTTP gateway client, printing to out.
func New(cfg *config.Config, out io.Writer) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.Timeouts = cfg.Timeouts.WithDefaults()

	uploader, err := storage.NewUploader(cfg)
	if err != nil {
		return nil, err
	}
	fetcher := storage.NewGatewayClient(nil, cfg.Timeouts.Fetch)
	return NewRunner(cfg, uploader, fetcher, display.NewPrinter(out)), nil
}

// Run prints the heading, uploads the file and fetches it back. Any error
// is printed and logged, then returned to the caller.
func (r *Runner) Run(ctx context.Context) error {
	r.printer.Heading(HeadingText)

	if err := r.run(ctx); err != nil {
		r.printer.Error("❗ Error during the process:", err)
		zap.L().Error("error during the process", zap.Error(err))
		return err
	}
	return nil
}

func (r *Runner) run(ctx context.Context) error {
	res, err := r.uploadFile(ctx)
	if err != nil {
		return err
	}

	r.printer.Success("📝 Upload Information:")
	uploadFields, err := res.Fields()
	if err != nil {
		return err
	}
	r.printer.Table(uploadFields)

	fetched, err := r.fetchFile(ctx, res.ProtocolLink)
	if err != nil {
		return err
	}
	r.printer.Success("✅ Fetched JSON data from the above link:")
	r.printer.Table(fetched)
	return nil
}

// UploadConfig returns the options passed to the uploader, with progress
// callbacks printing status lines.
func (r *Runner) UploadConfig() model.UploadConfig {
	return model.UploadConfig{
		Name:     r.config.UploadName,
		Protocol: r.config.Protocol,
		OnUploadInitiated: func(uploadID string) {
			r.printer.Info(fmt.Sprintf("🔗 Upload initiated with ID: %s", uploadID))
		},
		OnChunkUploaded: r.printer.ChunkProgress,
	}
}

func (r *Runner) uploadFile(ctx context.Context) (*model.UploadResult, error) {
	if r.config.Timeouts.Upload > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeouts.Upload)
		defer cancel()
	}

	zap.L().Debug("uploading file", zap.String("path", r.config.FilePath), zap.String("protocol", r.config.Protocol.String()))
	res, err := r.uploader.Upload(ctx, r.config.FilePath, r.UploadConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", r.config.FilePath, err)
	}

	r.printer.Success(fmt.Sprintf("🚀 File uploaded successfully with ID: %s", res.UploadID))
	return res, nil
}

func (r *Runner) fetchFile(ctx context.Context, protocolLink string) (model.Fields, error) {
	fileName := filepath.Base(r.config.FilePath)
	r.printer.Link("🚀 Link to the JSON Data uploaded:", storage.FileURL(protocolLink, fileName))

	fields, err := r.fetcher.FetchJSON(ctx, protocolLink, fileName)
	if err != nil {
		r.printer.Error("❌ Error fetching data from IPFS:", err)
		zap.L().Error("error fetching data from IPFS", zap.String("protocolLink", protocolLink), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch uploaded file: %w", err)
	}
	return fields, nil
}
