package config

import (
	"errors"
	"time"
)

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Requirement constraints
	MinRequirementLength  int
	MaxRequirementLength  int
	MinDocumentLength     int
	MaxDocumentLength     int
	MinModificationLength int

	// Memory constraints
	MemoryWindowSize    int
	ContextTurnLimit    int
	ContextTurnMaxChars int

	// Project constraints
	MaxProjectFiles         int
	MaxFilePathLength       int
	ProjectRegistryCapacity int

	// Time constraints
	GenerationTimeout time.Duration
	JiraTimeout       time.Duration
	ArchiveCacheTTL   time.Duration
	SessionTimeout    time.Duration

	// Validation settings
	AllowAnonymousUsers        bool
	RequireRequirementApproval bool

	// Feature flags
	EnableEventPublishing bool
	EnableArchiveCache    bool
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		// Requirement constraints
		MinRequirementLength:  10,
		MaxRequirementLength:  5000,
		MinDocumentLength:     10,
		MaxDocumentLength:     10000,
		MinModificationLength: 5,

		// Memory constraints
		MemoryWindowSize:    4,
		ContextTurnLimit:    5,
		ContextTurnMaxChars: 200,

		// Project constraints
		MaxProjectFiles:         200,
		MaxFilePathLength:       255,
		ProjectRegistryCapacity: 128,

		// Time constraints
		GenerationTimeout: 45 * time.Second,
		JiraTimeout:       30 * time.Second,
		ArchiveCacheTTL:   15 * time.Minute,
		SessionTimeout:    24 * time.Hour,

		// Validation settings
		AllowAnonymousUsers:        true,
		RequireRequirementApproval: true,

		// Feature flags
		EnableEventPublishing: true,
		EnableArchiveCache:    true,
	}
}

// ProductionDomainConfig returns production-specific configuration
func ProductionDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	// More restrictive limits for production
	config.MaxProjectFiles = 100
	config.ProjectRegistryCapacity = 64
	config.ArchiveCacheTTL = 5 * time.Minute

	return config
}

// DevelopmentDomainConfig returns development-specific configuration
func DevelopmentDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	// More permissive for development
	config.MaxProjectFiles = 500
	config.ProjectRegistryCapacity = 256
	config.GenerationTimeout = 120 * time.Second
	config.ArchiveCacheTTL = time.Hour

	return config
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "production":
		return ProductionDomainConfig()
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}

// Validate checks if the configuration is valid
func (c *DomainConfig) Validate() error {
	if c.MinRequirementLength <= 0 || c.MaxRequirementLength < c.MinRequirementLength {
		return errors.New("invalid requirement length bounds")
	}
	if c.MinDocumentLength <= 0 || c.MaxDocumentLength < c.MinDocumentLength {
		return errors.New("invalid document length bounds")
	}
	if c.MemoryWindowSize <= 0 {
		return errors.New("memory window size must be positive")
	}
	if c.ContextTurnLimit < 0 || c.ContextTurnMaxChars < 0 {
		return errors.New("context limits must not be negative")
	}
	if c.GenerationTimeout <= 0 {
		return errors.New("generation timeout must be positive")
	}
	if c.ProjectRegistryCapacity <= 0 {
		return errors.New("project registry capacity must be positive")
	}
	return nil
}
