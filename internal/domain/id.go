package domain

import "github.com/google/uuid"

// NewAssetID returns a unique name for a generated asset such as an image file.
func NewAssetID() string {
	return uuid.New().String()
}
