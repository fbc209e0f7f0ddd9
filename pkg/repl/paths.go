package repl

import (
	"os"
	"path/filepath"

	"src.ggexpr.dev/pkg/env"
)

// Returns the path of the database file for history and saved bindings. It is
// $GGEXPR_DB if set, or a file in the user's config directory otherwise, whose
// directory is created if needed.
func dbPath() (string, error) {
	if p := os.Getenv(env.GGEXPR_DB); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "ggexpr")
	err = os.MkdirAll(dir, 0700)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "db.bolt"), nil
}
