package utils

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// GenerateRandomKey returns a URL-safe random identifier, used for API keys
// and OAuth state parameters.
func GenerateRandomKey(length int) (string, error) {
	return gonanoid.New(length)
}
