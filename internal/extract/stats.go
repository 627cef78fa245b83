package extract

import (
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
)

// Stats computes aggregate statistics over PDF collections.
type Stats struct {
	maxFileSize int64
	validator   *Validator
}

// NewStats creates a stats analyzer with the specified constraints.
func NewStats(maxFileSize int64) *Stats {
	return &Stats{
		maxFileSize: maxFileSize,
		validator:   NewValidator(maxFileSize),
	}
}

// GetDirectoryStats walks a directory and aggregates size statistics over the
// valid PDF files it contains.
func (s *Stats) GetDirectoryStats(req DirectoryStatsRequest) (*DirectoryStatsResult, error) {
	if req.Directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}
	if _, err := os.Stat(req.Directory); os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", req.Directory)
	}

	result := &DirectoryStatsResult{
		Directory:        req.Directory,
		SmallestFileSize: math.MaxInt64,
	}

	err := filepath.WalkDir(req.Directory, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !isPDFFile(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if s.validator.CheckFileInfo(path, info) != nil {
			return nil
		}

		result.TotalFiles++
		result.TotalSize += info.Size()

		if info.Size() > result.LargestFileSize {
			result.LargestFileSize = info.Size()
			result.LargestFileName = d.Name()
		}
		if info.Size() < result.SmallestFileSize {
			result.SmallestFileSize = info.Size()
			result.SmallestFileName = d.Name()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	if result.TotalFiles == 0 {
		result.SmallestFileSize = 0
	} else {
		result.AverageFileSize = result.TotalSize / int64(result.TotalFiles)
	}

	return result, nil
}
