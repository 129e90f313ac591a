// Package server provides the HTTP server and UI for the segmentation
// frontend: the index page with image pickers, the prediction form handler,
// raw image and thumbnail endpoints, a small JSON API, and the health,
// version, and metrics endpoints.
package server
