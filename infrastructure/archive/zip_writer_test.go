package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triforge-backend/domain/core/entities"
	"triforge-backend/domain/core/valueobjects"
)

func buildProject(t *testing.T, files []entities.ProjectFile) *entities.GeneratedProject {
	t.Helper()
	userID, err := valueobjects.NewUserIDFromString("alice")
	require.NoError(t, err)
	project, err := entities.NewGeneratedProject(userID, "Build a task tracker",
		[]entities.Technology{{Name: "Python", Category: "language"}}, files)
	require.NoError(t, err)
	return project
}

func readArchive(t *testing.T, content []byte) map[string]string {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	require.NoError(t, err)

	entries := make(map[string]string, len(reader.File))
	for _, file := range reader.File {
		rc, err := file.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		entries[file.Name] = string(data)
	}
	return entries
}

func TestPackageWritesAllFilesAndReadme(t *testing.T) {
	project := buildProject(t, []entities.ProjectFile{
		{Path: "app/main.py", Content: "print('hello')", Language: "python"},
		{Path: "app/config.py", Content: "DEBUG = True", Language: "python"},
	})

	content, err := NewZipWriter(nil).Package(context.Background(), project)
	require.NoError(t, err)

	entries := readArchive(t, content)
	require.Len(t, entries, 3)
	assert.Equal(t, "print('hello')", entries["app/main.py"])
	assert.Equal(t, "DEBUG = True", entries["app/config.py"])
	assert.Contains(t, entries["README.md"], "# Generated Project")
	assert.Contains(t, entries["README.md"], "Python")
}

func TestPackageKeepsExistingReadme(t *testing.T) {
	project := buildProject(t, []entities.ProjectFile{
		{Path: "readme.md", Content: "custom readme", Language: "markdown"},
		{Path: "main.py", Content: "pass", Language: "python"},
	})

	content, err := NewZipWriter(nil).Package(context.Background(), project)
	require.NoError(t, err)

	entries := readArchive(t, content)
	require.Len(t, entries, 2)
	assert.Equal(t, "custom readme", entries["readme.md"])
	_, derived := entries["README.md"]
	assert.False(t, derived)
}

func TestPackageNestedPathsRoundTrip(t *testing.T) {
	project := buildProject(t, []entities.ProjectFile{
		{Path: "src/api/routes/users.py", Content: "# users", Language: "python"},
		{Path: "src/api/__init__.py", Content: "", Language: "python"},
	})

	content, err := NewZipWriter(nil).Package(context.Background(), project)
	require.NoError(t, err)

	entries := readArchive(t, content)
	assert.Equal(t, "# users", entries["src/api/routes/users.py"])
	_, ok := entries["src/api/__init__.py"]
	assert.True(t, ok)
}
