package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// ProjectID is a value object representing a generated project identifier
// Value objects are immutable and have no identity beyond their value
type ProjectID struct {
	value string
}

// NewProjectID creates a new random ProjectID
func NewProjectID() ProjectID {
	return ProjectID{value: uuid.New().String()}
}

// NewProjectIDFromString creates a ProjectID from an existing string
func NewProjectIDFromString(id string) (ProjectID, error) {
	if id == "" {
		return ProjectID{}, errors.New("project ID cannot be empty")
	}
	if !isValidUUID(id) {
		return ProjectID{}, errors.New("project ID must be a valid UUID")
	}
	return ProjectID{value: id}, nil
}

// String returns the string representation of the ProjectID
func (id ProjectID) String() string {
	return id.value
}

// Equals checks if two ProjectIDs are equal
func (id ProjectID) Equals(other ProjectID) bool {
	return id.value == other.value
}

// IsZero checks if the ProjectID is the zero value
func (id ProjectID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id ProjectID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *ProjectID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("ProjectID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}

// isValidUUID validates if a string is a valid UUID
func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
