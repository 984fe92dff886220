package offers

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// candidateFiles are tried in order inside each offer directory.
var candidateFiles = []string{"listing.json", "offer.json", "marketplace.json"}

// aggregateFile holds a whole array of offers in one file.
const aggregateFile = "offers.json"

// Collect walks the source tree and normalizes every offer it finds: first
// an aggregate offers.json array, then loose JSON files slugged after their
// filename, then one offer per subdirectory with the directory name winning
// as the slug. Directories without a recognized candidate file are recursed
// into. Unreadable or unrecognizable JSON is skipped, never fatal.
func Collect(srcDir string, logger *zap.Logger) ([]Offer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, err
	}

	collected := make([]Offer, 0, len(entries))

	if sources, ok := readAggregate(filepath.Join(srcDir, aggregateFile)); ok {
		logger.Info("reading aggregate offers file",
			zap.String("dir", srcDir),
			zap.Int("offers", len(sources)))
		for _, src := range sources {
			collected = append(collected, Normalize(src))
		}
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") || entry.Name() == aggregateFile {
			continue
		}
		path := filepath.Join(srcDir, entry.Name())
		src, ok := readSourceFile(path)
		if !ok {
			logger.Warn("skipping unreadable offer file", zap.String("path", path))
			continue
		}
		src.Slug = Slugify(strings.TrimSuffix(entry.Name(), ".json"))
		collected = append(collected, Normalize(src))
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		offerDir := filepath.Join(srcDir, entry.Name())
		if src, ok := readCandidate(offerDir); ok {
			src.Slug = entry.Name()
			collected = append(collected, Normalize(src))
			continue
		}
		nested, err := Collect(offerDir, logger)
		if err != nil {
			logger.Warn("skipping unreadable directory", zap.String("path", offerDir), zap.Error(err))
			continue
		}
		collected = append(collected, nested...)
	}
	return collected, nil
}

func readCandidate(offerDir string) (Source, bool) {
	for _, name := range candidateFiles {
		if src, ok := readSourceFile(filepath.Join(offerDir, name)); ok {
			return src, true
		}
	}
	return Source{}, false
}

func readAggregate(path string) ([]Source, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var sources []Source
	if err := json.Unmarshal(raw, &sources); err != nil {
		return nil, false
	}
	return sources, true
}

func readSourceFile(path string) (Source, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Source{}, false
	}
	var src Source
	if err := json.Unmarshal(raw, &src); err != nil {
		return Source{}, false
	}
	return src, true
}

// WriteJSON writes the normalized offers as indented JSON.
func WriteJSON(path string, collected []Offer) error {
	data, err := json.MarshalIndent(collected, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
