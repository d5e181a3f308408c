package entities

import (
	"fmt"
	"strings"
	"time"

	"triforge-backend/domain/core/valueobjects"
	"triforge-backend/domain/events"
	pkgerrors "triforge-backend/pkg/errors"
)

// Technology is a single detected technology choice for a generated project
type Technology struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Version  string `json:"version,omitempty"`
}

// ProjectFile is one file of a generated project bundle
type ProjectFile struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Language string `json:"language"`
}

// FileLeaf is the metadata stored for a file entry in a project tree
type FileLeaf struct {
	Type     string `json:"type"`
	Language string `json:"language"`
	Size     int    `json:"size"`
}

// FileTree maps a path segment to either a nested FileTree (directory) or a
// FileLeaf (file)
type FileTree map[string]interface{}

// BuildFileTree explodes flat file paths into a nested directory tree. A path
// may not appear twice and may not collide as both a file and a directory.
func BuildFileTree(files []ProjectFile) (FileTree, error) {
	tree := FileTree{}

	for _, file := range files {
		if strings.TrimSpace(file.Path) == "" {
			return nil, pkgerrors.NewDomainError(
				pkgerrors.DomainValidationError,
				"EMPTY_FILE_PATH",
				"A generated project file has an empty path",
			)
		}

		parts := strings.Split(file.Path, "/")
		current := tree

		for _, part := range parts[:len(parts)-1] {
			if part == "" {
				return nil, invalidPathError(file.Path)
			}
			existing, ok := current[part]
			if !ok {
				child := FileTree{}
				current[part] = child
				current = child
				continue
			}
			child, isTree := existing.(FileTree)
			if !isTree {
				return nil, pathConflictError(file.Path, part)
			}
			current = child
		}

		name := parts[len(parts)-1]
		if name == "" {
			return nil, invalidPathError(file.Path)
		}
		if existing, ok := current[name]; ok {
			if _, isTree := existing.(FileTree); isTree {
				return nil, pathConflictError(file.Path, name)
			}
			return nil, pkgerrors.NewDomainError(
				pkgerrors.DomainValidationError,
				"DUPLICATE_FILE_PATH",
				fmt.Sprintf("The generated project declares file path '%s' twice", file.Path),
			)
		}

		current[name] = FileLeaf{
			Type:     "file",
			Language: file.Language,
			Size:     len(file.Content),
		}
	}

	return tree, nil
}

func invalidPathError(path string) error {
	return pkgerrors.NewDomainError(
		pkgerrors.DomainValidationError,
		"EMPTY_FILE_PATH",
		fmt.Sprintf("File path '%s' contains an empty segment", path),
	)
}

func pathConflictError(path, segment string) error {
	return pkgerrors.NewDomainError(
		pkgerrors.DomainValidationError,
		"PATH_CONFLICT",
		fmt.Sprintf("File path '%s' collides with '%s', which is used as both a file and a directory", path, segment),
	)
}

// GeneratedProject is the aggregate produced by the project pipeline: the
// detected technologies, the generated files, and their directory tree.
type GeneratedProject struct {
	id           valueobjects.ProjectID
	userID       valueobjects.UserID
	requirement  string
	technologies []Technology
	files        []ProjectFile
	structure    FileTree
	createdAt    time.Time
	version      int
	events       []events.DomainEvent
}

// NewGeneratedProject assembles a project from pipeline output, building and
// validating the directory tree
func NewGeneratedProject(userID valueobjects.UserID, requirement string, technologies []Technology, files []ProjectFile) (*GeneratedProject, error) {
	if len(technologies) == 0 {
		return nil, pkgerrors.ErrEmptyTechnologyList
	}
	if len(files) == 0 {
		return nil, pkgerrors.ErrNoProjectFiles
	}

	structure, err := BuildFileTree(files)
	if err != nil {
		return nil, err
	}

	project := &GeneratedProject{
		id:           valueobjects.NewProjectID(),
		userID:       userID,
		requirement:  requirement,
		technologies: technologies,
		files:        files,
		structure:    structure,
		createdAt:    time.Now(),
		version:      1,
	}

	project.raiseEvent(events.NewProjectGenerated(
		project.id,
		userID,
		len(files),
		project.TechnologyNames(),
		project.createdAt,
	))

	return project, nil
}

// ReconstructGeneratedProject recreates a project from stored state without
// raising events
func ReconstructGeneratedProject(
	id valueobjects.ProjectID,
	userID valueobjects.UserID,
	requirement string,
	technologies []Technology,
	files []ProjectFile,
	structure FileTree,
	createdAt time.Time,
) *GeneratedProject {
	return &GeneratedProject{
		id:           id,
		userID:       userID,
		requirement:  requirement,
		technologies: technologies,
		files:        files,
		structure:    structure,
		createdAt:    createdAt,
		version:      1,
	}
}

// ID returns the project identifier
func (p *GeneratedProject) ID() valueobjects.ProjectID {
	return p.id
}

// UserID returns the owner of the project
func (p *GeneratedProject) UserID() valueobjects.UserID {
	return p.userID
}

// Requirement returns the prompt the project was generated from
func (p *GeneratedProject) Requirement() string {
	return p.requirement
}

// Technologies returns the detected technologies
func (p *GeneratedProject) Technologies() []Technology {
	result := make([]Technology, len(p.technologies))
	copy(result, p.technologies)
	return result
}

// TechnologyNames returns just the technology names, in detection order
func (p *GeneratedProject) TechnologyNames() []string {
	names := make([]string, len(p.technologies))
	for i, tech := range p.technologies {
		names[i] = tech.Name
	}
	return names
}

// Files returns the generated files
func (p *GeneratedProject) Files() []ProjectFile {
	result := make([]ProjectFile, len(p.files))
	copy(result, p.files)
	return result
}

// FileCount returns the number of generated files
func (p *GeneratedProject) FileCount() int {
	return len(p.files)
}

// Structure returns the directory tree
func (p *GeneratedProject) Structure() FileTree {
	return p.structure
}

// CreatedAt returns when the project was generated
func (p *GeneratedProject) CreatedAt() time.Time {
	return p.createdAt
}

// Version returns the aggregate version
func (p *GeneratedProject) Version() int {
	return p.version
}

// HasReadme reports whether any generated file already provides a README
func (p *GeneratedProject) HasReadme() bool {
	for _, file := range p.files {
		if strings.HasPrefix(strings.ToLower(file.Path), "readme") {
			return true
		}
	}
	return false
}

// GetUncommittedEvents returns events raised since the last commit
func (p *GeneratedProject) GetUncommittedEvents() []events.DomainEvent {
	return p.events
}

// MarkEventsAsCommitted clears the uncommitted event list
func (p *GeneratedProject) MarkEventsAsCommitted() {
	p.events = nil
}

func (p *GeneratedProject) raiseEvent(event events.DomainEvent) {
	p.events = append(p.events, event)
}
