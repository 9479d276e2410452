package jobs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
)

// FileID derives a stable identifier for a media file from its absolute path.
func FileID(mediaPath string) (string, error) {
	abs, err := filepath.Abs(mediaPath)
	if err != nil {
		return "", fmt.Errorf("resolve media path: %w", err)
	}
	sum := sha256.Sum256([]byte(filepath.Clean(abs)))
	return hex.EncodeToString(sum[:8]), nil
}
