package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/soulfoods/morsel/internal/sales"
)

const extractPrefix = "daily_sales_data"

// DiscoverExtracts lists the raw extract files under dir, sorted by name
// so every run processes them in the same order.
func DiscoverExtracts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sales.ErrSourceRead, err)
	}

	var paths []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasPrefix(name, extractPrefix) && strings.HasSuffix(name, ".csv") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoExtracts)
	}

	sort.Strings(paths)

	return paths, nil
}
