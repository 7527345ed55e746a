package pkg

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateSessionID - generates a random session identifier.
func GenerateSessionID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate uuid: %w", err)
	}

	return id.String(), nil
}
