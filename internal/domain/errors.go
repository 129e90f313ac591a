package domain

import "errors"

var (
	ErrImageNotFound  = errors.New("image not found")
	ErrNotAnImage     = errors.New("file is not a decodable image")
	ErrImageTooLarge  = errors.New("image exceeds the maximum file size")
	ErrUnsupportedExt = errors.New("unsupported image type")
	ErrAPITimeout     = errors.New("segmentation API request timed out")
	ErrAPIUnreachable = errors.New("segmentation API unreachable")
	ErrAPIFailure     = errors.New("segmentation API request failed")
	ErrBadResponse    = errors.New("segmentation API returned an invalid response")
)
