package validators

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triforge-backend/domain/config"
	"triforge-backend/domain/core/entities"
	pkgerrors "triforge-backend/pkg/errors"
)

func TestValidateTechnologies(t *testing.T) {
	v := NewProjectValidator(nil)

	err := v.ValidateTechnologies(nil)
	assert.ErrorIs(t, err, pkgerrors.ErrEmptyTechnologyList)

	err = v.ValidateTechnologies([]entities.Technology{{Name: "  ", Category: "backend"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty name")

	err = v.ValidateTechnologies([]entities.Technology{{Name: "Go", Category: "backend"}})
	assert.NoError(t, err)
}

func TestValidateFiles(t *testing.T) {
	v := NewProjectValidator(nil)

	t.Run("empty list", func(t *testing.T) {
		assert.ErrorIs(t, v.ValidateFiles(nil), pkgerrors.ErrNoProjectFiles)
	})

	t.Run("too many files", func(t *testing.T) {
		cfg := config.DefaultDomainConfig()
		cfg.MaxProjectFiles = 2
		small := NewProjectValidator(cfg)

		files := make([]entities.ProjectFile, 3)
		for i := range files {
			files[i] = entities.ProjectFile{Path: fmt.Sprintf("f%d.txt", i)}
		}
		err := small.ValidateFiles(files)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "maximum of 2 files")
	})

	t.Run("duplicate paths", func(t *testing.T) {
		err := v.ValidateFiles([]entities.ProjectFile{
			{Path: "main.go"},
			{Path: "main.go"},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "twice")
	})

	t.Run("absolute path", func(t *testing.T) {
		err := v.ValidateFiles([]entities.ProjectFile{{Path: "/etc/passwd"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be relative")
	})

	t.Run("path traversal", func(t *testing.T) {
		err := v.ValidateFiles([]entities.ProjectFile{{Path: "../outside.txt"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "project root")
	})

	t.Run("valid files", func(t *testing.T) {
		err := v.ValidateFiles([]entities.ProjectFile{
			{Path: "package.json"},
			{Path: "src/index.js"},
		})
		assert.NoError(t, err)
	})
}

func TestValidateProject(t *testing.T) {
	v := NewProjectValidator(nil)

	err := v.ValidateProject(
		[]entities.Technology{{Name: "Next.js", Category: "frontend"}},
		[]entities.ProjectFile{{Path: "pages/index.tsx"}},
	)
	assert.NoError(t, err)

	err = v.ValidateProject(nil, []entities.ProjectFile{{Path: "pages/index.tsx"}})
	assert.ErrorIs(t, err, pkgerrors.ErrEmptyTechnologyList)
}
