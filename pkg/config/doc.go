// Package config provides configuration management for the uploader.
//
// # Basic Configuration
//
// The minimum configuration for the Spheron backend is a token:
//
//	cfg := &config.Config{
//		Token: "YOUR_SPHERON_TOKEN",
//	}
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("Invalid config: %v", err)
//	}
//
// Validate() will:
//   - Set FilePath to ./metadata.json and UploadName to "metadata upload"
//   - Set Protocol to ipfs and Backend to spheron
//   - Set default API, Kubo RPC and gateway URLs and a 5 MiB chunk size
//   - Return ErrTokenRequired if the spheron backend has no token
//
// # Backends
//
//	config.BackendSpheron - Spheron storage HTTP API, authenticated by Token
//	config.BackendKubo    - a Kubo (go-ipfs) node reachable at IpfsURL; only ipfs protocol
//
// # Files and Environment
//
// Load reads the same fields from YAML:
//
//	token: YOUR_SPHERON_TOKEN
//	file_path: ./metadata.json
//	timeouts:
//	  upload: 2m
//	  fetch: 30s
//
// ApplyEnv then overrides Token, FilePath and APIURL from SPHERON_TOKEN,
// SPHERON_FILE and SPHERON_API_URL so credentials can stay out of files.
//
// # Timeouts
//
// Zero values are replaced with defaults via WithDefaults():
//
//	cfg.Timeouts = config.Timeouts{
//		Upload: 2 * time.Minute,  // whole upload
//		Fetch:  30 * time.Second, // gateway GET
//		Dial:   5 * time.Second,  // TCP connect to the backend
//	}
package config
