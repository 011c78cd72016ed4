package wizard

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/imamik/devprov/internal/util/keygen"
)

// EnsureKey creates an ed25519 key pair at path unless a private key is
// already there. It reports whether a key was generated.
func EnsureKey(path, comment string) (bool, error) {
	path, err := expandPath(path)
	if err != nil {
		return false, err
	}

	pair, err := keygen.GenerateEd25519KeyPair(comment)
	if err != nil {
		return false, err
	}
	if err := pair.WriteFiles(path); err != nil {
		if errors.Is(err, keygen.ErrKeyExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func expandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
