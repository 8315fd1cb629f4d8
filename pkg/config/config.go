// Package config defines the runtime configuration of the uploader: the
// storage backend and its credentials, the file to upload, gateway URLs,
// debug mode and operation timeouts. It also provides validation, defaulting,
// YAML loading and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shamank/spheron-storage-go/pkg/model"
	"gopkg.in/yaml.v3"
)

// Backend names a storage backend implementation.
type Backend string

const (
	// BackendSpheron uploads through the Spheron storage HTTP API.
	BackendSpheron Backend = "spheron"
	// BackendKubo uploads to an IPFS node through the Kubo RPC API.
	BackendKubo Backend = "kubo"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvToken  = "SPHERON_TOKEN"
	EnvFile   = "SPHERON_FILE"
	EnvAPIURL = "SPHERON_API_URL"
)

const (
	DefaultFilePath   = "./metadata.json"
	DefaultUploadName = "metadata upload"
	DefaultAPIURL     = "https://api-v2.spheron.network"
	DefaultIpfsURL    = "http://127.0.0.1:5001"
	DefaultGatewayURL = "https://ipfs.io/ipfs/"
	DefaultChunkSize  = 5 << 20
)

var (
	// ErrTokenRequired is returned by Validate when the Spheron backend has no token.
	ErrTokenRequired = errors.New("spheron token is required")
	// ErrInvalidChunkSize is returned by Validate for a negative chunk size.
	ErrInvalidChunkSize = errors.New("chunk size must be positive")
)

// Config holds everything needed to upload a file and fetch it back.
// Use Validate to fill implicit defaults and to check for required fields.
type Config struct {
	// Token is the bearer token passed to the Spheron API (required for the spheron backend).
	Token string `json:"token" yaml:"token"`
	// FilePath is the local file to upload. Default: ./metadata.json
	FilePath string `json:"file_path" yaml:"file_path"`
	// UploadName is the human-readable name attached to the upload.
	UploadName string `json:"upload_name" yaml:"upload_name"`
	// Protocol is the destination network. Default: ipfs
	Protocol model.Protocol `json:"protocol" yaml:"protocol"`
	// Backend selects the uploader implementation. Default: spheron
	Backend Backend `json:"backend" yaml:"backend"`
	// APIURL is the base URL of the Spheron storage API.
	APIURL string `json:"api_url" yaml:"api_url"`
	// IpfsURL is the Kubo RPC endpoint used by the kubo backend.
	IpfsURL string `json:"ipfs_url" yaml:"ipfs_url"`
	// GatewayURL prefixes the root CID to form the protocol link for the kubo backend.
	GatewayURL string `json:"gateway_url" yaml:"gateway_url"`
	// ChunkSize is the number of bytes sent per upload request.
	ChunkSize int64 `json:"chunk_size" yaml:"chunk_size"`
	// Debug enables verbose logging.
	Debug bool `json:"debug" yaml:"debug"`
	// Timeouts configures per-operation timeouts. See Timeouts.WithDefaults for defaults.
	Timeouts Timeouts `json:"timeouts" yaml:"timeouts"`
}

// Timeouts controls operation deadlines.
// Zero values will be replaced by defaults in WithDefaults.
type Timeouts struct {
	Upload time.Duration `json:"upload" yaml:"upload"` // whole upload, all chunks
	Fetch  time.Duration `json:"fetch" yaml:"fetch"`   // gateway GET
	Dial   time.Duration `json:"dial" yaml:"dial"`     // TCP connect to the backend
}

// Validate normalizes the configuration by applying implicit defaults and
// verifies backend, protocol, chunk size and token.
func (c *Config) Validate() error {
	if c.FilePath == "" {
		c.FilePath = DefaultFilePath
	}
	if c.UploadName == "" {
		c.UploadName = DefaultUploadName
	}
	if c.Protocol == "" {
		c.Protocol = model.ProtocolIPFS
	}
	if c.Backend == "" {
		c.Backend = BackendSpheron
	}
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.IpfsURL == "" {
		c.IpfsURL = DefaultIpfsURL
	}
	if c.GatewayURL == "" {
		c.GatewayURL = DefaultGatewayURL
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = DefaultChunkSize
	}

	protocol, err := model.ParseProtocol(string(c.Protocol))
	if err != nil {
		return err
	}
	c.Protocol = protocol

	if c.ChunkSize < 0 {
		return ErrInvalidChunkSize
	}

	switch c.Backend {
	case BackendSpheron:
		if strings.TrimSpace(c.Token) == "" {
			return ErrTokenRequired
		}
	case BackendKubo:
		if c.Protocol != model.ProtocolIPFS {
			return fmt.Errorf("backend %q only supports protocol %q", c.Backend, model.ProtocolIPFS)
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}

	return nil
}

// WithDefaults returns a copy of t with zero values replaced by defaults:
//
//	Upload: 120s
//	Fetch:  30s
//	Dial:   5s
func (t Timeouts) WithDefaults() Timeouts {
	tt := t
	if tt.Upload == 0 {
		tt.Upload = 120 * time.Second
	}
	if tt.Fetch == 0 {
		tt.Fetch = 30 * time.Second
	}
	if tt.Dial == 0 {
		tt.Dial = 5 * time.Second
	}
	return tt
}

// Load reads a YAML configuration file. An empty path yields a zero Config.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides token, file path and API URL from the environment when set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvToken); v != "" {
		c.Token = v
	}
	if v := os.Getenv(EnvFile); v != "" {
		c.FilePath = v
	}
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
}
