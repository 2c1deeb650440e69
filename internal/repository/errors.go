package repository

import "errors"

var (
	// ErrAssetsMissing indicates at least one artifact could not be loaded
	ErrAssetsMissing = errors.New("models missing")

	// ErrRepositoryUnavailable indicates the backing source could not be reached
	ErrRepositoryUnavailable = errors.New("repository unavailable")
)
