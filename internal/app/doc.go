// Package app is the application layer. It orchestrates the dataset
// repository and the segmentation client into the use cases the UI exposes:
// environment checks, image browsing, and predictions.
package app
