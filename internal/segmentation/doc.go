// Package segmentation implements the HTTP client for the remote
// segmentation API. It handles multipart image uploads, mask decoding,
// per-class stats parsing, and health probing.
package segmentation
