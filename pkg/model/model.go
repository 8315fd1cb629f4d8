// Package model defines the data structures exchanged with the storage
// backends: upload options with their progress callbacks, the upload result
// returned by the network, and the ordered key/value rows used to print JSON
// documents as tables.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Protocol selects the decentralized network an upload is pinned to.
type Protocol string

const (
	// ProtocolIPFS stores the upload on IPFS.
	ProtocolIPFS Protocol = "ipfs"
	// ProtocolFilecoin stores the upload on Filecoin.
	ProtocolFilecoin Protocol = "filecoin"
	// ProtocolArweave stores the upload on Arweave.
	ProtocolArweave Protocol = "arweave"
)

// ParseProtocol converts a case-insensitive protocol name into a Protocol.
func ParseProtocol(s string) (Protocol, error) {
	switch p := Protocol(strings.ToLower(strings.TrimSpace(s))); p {
	case ProtocolIPFS, ProtocolFilecoin, ProtocolArweave:
		return p, nil
	default:
		return "", fmt.Errorf("unknown protocol %q", s)
	}
}

func (p Protocol) String() string {
	return string(p)
}

// UploadConfig carries the per-upload options. Both callbacks are optional
// and may be invoked zero or more times while an upload is in flight.
type UploadConfig struct {
	Name     string
	Protocol Protocol
	// OnUploadInitiated is called once the backend has assigned an upload ID.
	OnUploadInitiated func(uploadID string)
	// OnChunkUploaded reports the cumulative number of bytes sent and the total payload size.
	OnChunkUploaded func(uploadedSize, totalSize int64)
}

// UploadInitiated invokes OnUploadInitiated when it is set.
func (c UploadConfig) UploadInitiated(uploadID string) {
	if c.OnUploadInitiated != nil {
		c.OnUploadInitiated(uploadID)
	}
}

// ChunkUploaded invokes OnChunkUploaded when it is set.
func (c UploadConfig) ChunkUploaded(uploadedSize, totalSize int64) {
	if c.OnChunkUploaded != nil {
		c.OnChunkUploaded(uploadedSize, totalSize)
	}
}

// UploadResult is the metadata returned for a completed upload.
// ProtocolLink is a gateway URL under which the uploaded files are reachable.
type UploadResult struct {
	UploadID     string   `json:"uploadId"`
	BucketID     string   `json:"bucketId"`
	ProtocolLink string   `json:"protocolLink"`
	DynamicLinks []string `json:"dynamicLinks"`
	CID          string   `json:"cid,omitempty"`
}

// Fields returns the result as ordered table rows, in JSON field order.
func (r *UploadResult) Fields() (Fields, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal upload result: %w", err)
	}
	return FieldsFromJSON(data)
}
