// Package dataset provides the dataset sources and the providers that hand
// the loaded dataset to request handlers.
package dataset

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/jsamuelsen/hitokoto-service/internal/adapters/clients/acl"
	"github.com/jsamuelsen/hitokoto-service/internal/domain"
	"github.com/jsamuelsen/hitokoto-service/internal/platform/logging"
)

// ErrSourceNotFound is wrapped by a FileSource load error when the file does
// not exist. The Resolver treats it as "try the next source".
var ErrSourceNotFound = errors.New("dataset source not found")

const fileSourceName = "file"

// FileSource reads the dataset document from the local filesystem.
// Implements ports.DatasetSource.
type FileSource struct {
	path   string
	logger *slog.Logger
}

// NewFileSource creates a source for the document at path.
func NewFileSource(path string, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.Default()
	}

	return &FileSource{
		path:   path,
		logger: logger.With(slog.String("component", "dataset.FileSource")),
	}
}

// Name identifies this source in logs and load errors.
func (s *FileSource) Name() string {
	return fileSourceName
}

// Load reads and decodes the file. A missing file yields a LoadError that
// wraps ErrSourceNotFound.
func (s *FileSource) Load(ctx context.Context) (*domain.Dataset, error) {
	s.logger.Log(ctx, logging.LevelTrace, "opening dataset file", slog.String("path", s.path))

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.NewLoadError(fileSourceName, s.path+" does not exist", ErrSourceNotFound)
	}

	if err != nil {
		return nil, domain.NewLoadError(fileSourceName, "unreadable file", err)
	}
	defer func() { _ = f.Close() }()

	ds, err := acl.DecodeDataset(f)
	if err != nil {
		return nil, domain.NewLoadError(fileSourceName, "malformed document", err)
	}

	return ds, nil
}
