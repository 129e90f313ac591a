// Package dataset reads Cityscapes-style validation images and their
// color-coded ground-truth masks from local directories.
package dataset
