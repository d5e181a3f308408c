package archive

import (
	"archive/zip"
	"bytes"
	"context"

	"go.uber.org/zap"

	"triforge-backend/domain/core/entities"
)

// ZipWriter packages generated projects as in-memory ZIP archives. Projects
// are bounded by the configured file limit, so buffering the whole archive
// is acceptable.
type ZipWriter struct {
	logger *zap.Logger
}

// NewZipWriter creates a ZIP archiver
func NewZipWriter(logger *zap.Logger) *ZipWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZipWriter{logger: logger}
}

// Package renders the project into ZIP bytes. A README.md is derived and
// added unless the generated files already include one.
func (z *ZipWriter) Package(ctx context.Context, project *entities.GeneratedProject) ([]byte, error) {
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)

	for _, file := range project.Files() {
		entry, err := writer.Create(file.Path)
		if err != nil {
			writer.Close()
			return nil, err
		}
		if _, err := entry.Write([]byte(file.Content)); err != nil {
			writer.Close()
			return nil, err
		}
	}

	if !project.HasReadme() {
		entry, err := writer.Create("README.md")
		if err != nil {
			writer.Close()
			return nil, err
		}
		if _, err := entry.Write([]byte(project.RenderReadme())); err != nil {
			writer.Close()
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	z.logger.Debug("Packaged project archive",
		zap.String("project_id", project.ID().String()),
		zap.Int("files", project.FileCount()),
		zap.Int("bytes", buf.Len()),
	)
	return buf.Bytes(), nil
}
