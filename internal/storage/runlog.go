package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// logTimestamp keeps file names sortable and unique across fast reruns.
const logTimestamp = "20060102-150405.000"

// WriteLog writes rec as a YAML document named run_seed<seed>_<timestamp>.yaml
// under dir, creating the directory if needed. Returns the file path.
func WriteLog(dir string, rec RunRecord) (string, error) {
	dir, err := ExpandHome(dir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: cannot create log directory %s: %w", dir, err)
	}

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	name := fmt.Sprintf("run_seed%d_%s.yaml", rec.Seed, rec.CreatedAt.Format(logTimestamp))
	path := filepath.Join(dir, name)

	data, err := yaml.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("storage: cannot encode run log: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: cannot write run log: %w", err)
	}
	return path, nil
}

// ReadLog loads a run log written by WriteLog.
func ReadLog(path string) (RunRecord, error) {
	var rec RunRecord
	data, err := os.ReadFile(path)
	if err != nil {
		return rec, fmt.Errorf("storage: cannot read run log: %w", err)
	}
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("storage: cannot parse run log %s: %w", path, err)
	}
	return rec, nil
}
