// Package storage uploads local files to decentralized storage networks and
// reads them back through HTTP gateways.
//
// # Uploaders
//
// Two Uploader implementations are provided:
//
// Spheron (SpheronClient):
//   - Spheron storage HTTP API, bearer-token authenticated
//   - Upload is initiated, sent sequentially in chunks, then finished
//   - Supports ipfs, filecoin and arweave protocols
//   - Default API: https://api-v2.spheron.network
//
// Kubo (KuboClient):
//   - A local or remote IPFS node through the Kubo RPC API
//   - Single `ipfs add --wrap-with-directory` request with progress events
//   - Default RPC: http://127.0.0.1:5001
//
// Both report progress through model.UploadConfig:
//
//	res, err := uploader.Upload(ctx, "./metadata.json", model.UploadConfig{
//		Name:     "metadata upload",
//		Protocol: model.ProtocolIPFS,
//		OnUploadInitiated: func(id string) { log.Println("initiated", id) },
//		OnChunkUploaded:   func(done, total int64) { log.Println(done, "/", total) },
//	})
//
// NewUploader picks the implementation from config.Config.Backend.
//
// # Gateway Reads
//
// The protocol link of a finished upload is a directory URL. Files inside it
// are fetched with GatewayClient:
//
//	fields, err := storage.NewGatewayClient(nil, 30*time.Second).
//		FetchJSON(ctx, res.ProtocolLink, "metadata.json")
//
// The request URL is exactly "{protocolLink}/metadata.json".
//
// # Error Handling
//
// Any non-2xx response, from the API or a gateway, is a *StatusError carrying
// the status code:
//
//	var statusErr *storage.StatusError
//	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
//		// content not yet propagated to the gateway
//	}
//
// Nothing is retried.
package storage
