package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MigrationStats summarizes a flat-to-yearly layout migration
type MigrationStats struct {
	Migrated int
	Skipped  int
}

// MigrateFlat moves <root>/<day>.zip files into <root>/<year>/. Files whose
// destination already exists are left in place and counted as skipped.
func (a *Archive) MigrateFlat() (MigrationStats, error) {
	var stats MigrationStats

	entries, err := os.ReadDir(a.root)
	if err != nil {
		return stats, fmt.Errorf("reading %s: %w", a.root, err)
	}

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".zip" {
			continue
		}
		day := strings.TrimSuffix(e.Name(), ".zip")
		if _, err := time.Parse(time.DateOnly, day); err != nil {
			continue
		}

		dest, _ := a.Path(day)
		if _, err := os.Stat(dest); err == nil {
			a.logger.Infow("already migrated, skipping", "day", day)
			stats.Skipped++
			continue
		}

		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return stats, fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
		}
		if err := os.Rename(filepath.Join(a.root, e.Name()), dest); err != nil {
			return stats, fmt.Errorf("moving %s: %w", e.Name(), err)
		}
		stats.Migrated++
	}

	a.logger.Infow("archive migration complete", "migrated", stats.Migrated, "skipped", stats.Skipped)
	return stats, nil
}
