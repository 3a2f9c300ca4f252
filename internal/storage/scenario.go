package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mkurosawa/mystery-engine/pkg/scenario"
)

// ListScenarios returns a name -> filename map of the scenario documents
// under the data directory. Character documents live in their own
// subdirectory and are never listed.
func (r *RedisStorage) ListScenarios(ctx context.Context) (map[string]string, error) {
	dir := filepath.Join(r.dataDir, "scenarios")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenarios directory: %w", err)
	}

	scenarios := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		sc, err := scenario.Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			r.logger.Warn("Skipping unreadable scenario", "file", entry.Name(), "error", err)
			continue
		}
		scenarios[sc.Case.Title] = entry.Name()
	}

	return scenarios, nil
}

// GetScenario loads a scenario document by filename. The filename is
// restricted to its base name so callers cannot escape the data dir.
func (r *RedisStorage) GetScenario(ctx context.Context, filename string) (*scenario.Scenario, error) {
	if filename == "" {
		return nil, fmt.Errorf("scenario filename is required")
	}
	path := filepath.Join(r.dataDir, "scenarios", filepath.Base(filename))

	sc, err := scenario.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("scenario %q not found: %w", filename, err)
		}
		return nil, fmt.Errorf("failed to load scenario %q: %w", filename, err)
	}

	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %q is invalid: %w", filename, err)
	}

	return sc, nil
}
