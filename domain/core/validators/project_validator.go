package validators

import (
	"fmt"
	"strings"

	"triforge-backend/domain/config"
	"triforge-backend/domain/core/entities"
	"triforge-backend/pkg/errors"
)

// ProjectValidator validates pipeline output before a project is assembled
type ProjectValidator struct {
	maxFiles      int
	maxPathLength int
}

// NewProjectValidator creates a validator from domain configuration
func NewProjectValidator(cfg *config.DomainConfig) *ProjectValidator {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &ProjectValidator{
		maxFiles:      cfg.MaxProjectFiles,
		maxPathLength: cfg.MaxFilePathLength,
	}
}

// ValidateTechnologies validates the detected technology list
func (v *ProjectValidator) ValidateTechnologies(technologies []entities.Technology) error {
	if len(technologies) == 0 {
		return errors.ErrEmptyTechnologyList
	}

	validationErrors := errors.NewValidationErrors()
	for i, tech := range technologies {
		if strings.TrimSpace(tech.Name) == "" {
			validationErrors.Add("technologies", fmt.Sprintf("technology at index %d has an empty name", i))
		}
	}

	if validationErrors.HasErrors() {
		return validationErrors
	}
	return nil
}

// ValidateFiles validates the generated file list
func (v *ProjectValidator) ValidateFiles(files []entities.ProjectFile) error {
	if len(files) == 0 {
		return errors.ErrNoProjectFiles
	}

	if len(files) > v.maxFiles {
		return errors.NewDomainError(
			errors.DomainValidationError,
			"TOO_MANY_FILES",
			fmt.Sprintf("The generated project exceeds the maximum of %d files", v.maxFiles),
		).WithDetail("file_count", len(files)).WithDetail("max_files", v.maxFiles)
	}

	validationErrors := errors.NewValidationErrors()
	seen := make(map[string]struct{}, len(files))

	for _, file := range files {
		if err := v.validatePath(file.Path); err != nil {
			if domainErr, ok := err.(*errors.DomainError); ok {
				validationErrors.AddError(domainErr)
			} else {
				validationErrors.Add("path", err.Error())
			}
			continue
		}

		if _, dup := seen[file.Path]; dup {
			validationErrors.AddError(errors.NewDomainError(
				errors.DomainValidationError,
				"DUPLICATE_FILE_PATH",
				fmt.Sprintf("The generated project declares file path '%s' twice", file.Path),
			))
			continue
		}
		seen[file.Path] = struct{}{}
	}

	if validationErrors.HasErrors() {
		return validationErrors
	}
	return nil
}

// ValidateProject validates both technology and file lists
func (v *ProjectValidator) ValidateProject(technologies []entities.Technology, files []entities.ProjectFile) error {
	if err := v.ValidateTechnologies(technologies); err != nil {
		return err
	}
	return v.ValidateFiles(files)
}

// validatePath validates a single file path
func (v *ProjectValidator) validatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.NewDomainError(
			errors.DomainValidationError,
			"EMPTY_FILE_PATH",
			"A generated project file has an empty path",
		)
	}

	if len(path) > v.maxPathLength {
		return errors.NewDomainError(
			errors.DomainValidationError,
			"FILE_PATH_TOO_LONG",
			fmt.Sprintf("File path '%s' exceeds the maximum length of %d", path, v.maxPathLength),
		).WithDetail("max_length", v.maxPathLength)
	}

	if strings.HasPrefix(path, "/") || strings.HasPrefix(path, "\\") {
		return errors.NewDomainError(
			errors.DomainValidationError,
			"ABSOLUTE_FILE_PATH",
			fmt.Sprintf("File path '%s' must be relative", path),
		)
	}

	for _, segment := range strings.Split(path, "/") {
		if segment == ".." {
			return errors.NewDomainError(
				errors.DomainValidationError,
				"PATH_TRAVERSAL",
				fmt.Sprintf("File path '%s' must not traverse outside the project root", path),
			)
		}
	}

	return nil
}
