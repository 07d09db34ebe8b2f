package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gembakit/photopair/internal/photo"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
}

// IngestDir scans a directory for photos and loads their payloads.
// Records are returned in filename order so runs are deterministic.
// limit <= 0 means no limit.
func IngestDir(dir string, limit int) ([]*photo.Record, map[string][]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}

	records := make([]*photo.Record, 0, len(names))
	payloads := make(map[string][]byte, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to stat %s: %w", name, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s: %w", name, err)
		}

		records = append(records, &photo.Record{
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime().UnixMilli(),
			Status:  photo.StatusPending,
		})
		payloads[name] = data
	}

	return records, payloads, nil
}
