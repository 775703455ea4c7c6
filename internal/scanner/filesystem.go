package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// FileSystemScanner finds .meta4 and .metalink documents on disk
type FileSystemScanner struct{}

// NewFileSystemScanner creates a new filesystem scanner
func NewFileSystemScanner() *FileSystemScanner {
	return &FileSystemScanner{}
}

// Scan walks dir and returns every Metalink document below it in lexical order.
// Files that cannot be sniffed are logged and left out.
func (s *FileSystemScanner) Scan(ctx context.Context, dir string) ([]ScannedFile, error) {
	var files []ScannedFile

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if info.IsDir() {
			return nil
		}

		fileType, err := s.DetectType(path)
		if err != nil {
			logrus.Warnf("Cannot read metalink candidate %s: %v", path, err)
			return nil
		}

		if fileType == TypeUnknown {
			logrus.Debugf("Skipping %s: not a metalink document", path)
			return nil
		}

		logrus.Debugf("Found .%s document: %s (%d bytes)", fileType, path, info.Size())

		files = append(files, ScannedFile{
			Path: path,
			Type: fileType,
			Size: info.Size(),
		})

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to scan %s for metalink files: %w", dir, err)
	}

	logrus.Infof("Found %d metalink files in %s", len(files), dir)
	return files, nil
}

// DetectType reports the Metalink flavour of path, TypeUnknown for other files
func (s *FileSystemScanner) DetectType(path string) (FileType, error) {
	return DetectFileType(path)
}
