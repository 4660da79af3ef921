package files

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	apperrors "storepulse/internal/errors"
)

// StampLayout is the timestamp suffix of report file names.
const StampLayout = "20060102_150405"

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
	// Stamp is the time encoded in the file name, zero when absent.
	Stamp time.Time
}

// Discovery finds report workbooks under a base directory.
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindWorkbooks lists the .xlsx files in dir whose name starts with
// prefix + "_", oldest first. Excel lock files are skipped.
func (d *Discovery) FindWorkbooks(dir, prefix string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError("report directory").WithContext("dir", fullPath)
		}
		return nil, apperrors.NewStorageError("failed to read directory", err).WithContext("dir", fullPath)
	}

	var files []FileInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "~$") {
			continue
		}
		if !strings.HasPrefix(name, prefix+"_") || !strings.EqualFold(filepath.Ext(name), ".xlsx") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		f := FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, prefix+"_"), filepath.Ext(name))
		if t, err := time.ParseInLocation(StampLayout, stamp, time.Local); err == nil {
			f.Stamp = t
		}
		files = append(files, f)
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].age().Before(files[j].age())
	})
	return files, nil
}

// LatestReport returns the newest workbook for prefix in dir. The time in the
// file name wins over the modification time.
func (d *Discovery) LatestReport(dir, prefix string) (FileInfo, error) {
	files, err := d.FindWorkbooks(dir, prefix)
	if err != nil {
		return FileInfo{}, err
	}
	latest, ok := GetLatestFile(files)
	if !ok {
		return FileInfo{}, apperrors.NewNotFoundError("report workbook").
			WithContext("dir", d.resolve(dir)).
			WithContext("prefix", prefix)
	}
	return latest, nil
}

// GetLatestFile returns the newest file from a list
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if file.age().After(latest.age()) {
			latest = file
		}
	}
	return latest, true
}

func (f FileInfo) age() time.Time {
	if !f.Stamp.IsZero() {
		return f.Stamp
	}
	return f.ModTime
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) || d.basePath == "" {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}
