// internal/togadir/depure.go
package togadir

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Depure removes run directories of previous invocations under parent.
// Only entries matching the run-directory naming scheme are touched; the
// predictor's own files are never removed.
func Depure(parent string, log zerolog.Logger) error {
	entries, err := os.ReadDir(parent)
	if err != nil {
		return err
	}
	removed := 0
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), OutDirPrefix+"_") {
			continue
		}
		if err := os.RemoveAll(filepath.Join(parent, e.Name())); err != nil {
			return err
		}
		removed++
	}
	if removed > 0 {
		log.Info().Int("dirs", removed).Str("parent", parent).
			Msg("removed previous run directories")
	}
	return nil
}
