package render

import (
	"fmt"

	"reelforge/internal/services"
)

// MissingAssetError names the input that was absent when a render started.
type MissingAssetError struct {
	Asset string
	Path  string
}

func (e *MissingAssetError) Error() string {
	return fmt.Sprintf("missing %s: %s", e.Asset, e.Path)
}

// Unwrap lets callers match the error with errors.Is(err, services.ErrMissingAsset).
func (e *MissingAssetError) Unwrap() error {
	return services.ErrMissingAsset
}
