package chains

import (
	"fmt"
	"sort"
	"strings"

	pkgerrors "triforge-backend/pkg/errors"
)

// ChainName identifies a registered prompt chain. The set of names is closed;
// operations select chains by these constants, never by free-form strings.
type ChainName string

const (
	JiraGeneration         ChainName = "jira_generation"
	JiraModification       ChainName = "jira_modification"
	DiagramGeneration      ChainName = "diagram_generation"
	DiagramModification    ChainName = "diagram_modification"
	CodeGeneration         ChainName = "code_generation"
	CodeModification       ChainName = "code_modification"
	Conversation           ChainName = "conversation"
	ValidationRequirements ChainName = "validation_requirements"
	RequirementsRefinement ChainName = "requirements_refinement"
	RequirementsAnalysis   ChainName = "requirements_analysis"
	TechnologyDetection    ChainName = "technology_detection"
	ProjectCodeGeneration  ChainName = "project_code_generation"
)

// ChainSpec is the immutable definition of one chain: its prompt template,
// the variables the template requires, and the sampling parameters the model
// is invoked with.
type ChainSpec struct {
	Name              ChainName
	PromptTemplate    string
	RequiredVariables []string
	Temperature       float64
	MaxOutputTokens   int
}

var registry = map[ChainName]ChainSpec{
	JiraGeneration: {
		Name:              JiraGeneration,
		PromptTemplate:    jiraGenerationTemplate,
		RequiredVariables: []string{"requirement", "chat_history"},
		Temperature:       0.4,
		MaxOutputTokens:   400,
	},
	JiraModification: {
		Name:              JiraModification,
		PromptTemplate:    jiraModificationTemplate,
		RequiredVariables: []string{"input", "chat_history"},
		Temperature:       0.1,
		MaxOutputTokens:   400,
	},
	DiagramGeneration: {
		Name:              DiagramGeneration,
		PromptTemplate:    diagramGenerationTemplate,
		RequiredVariables: []string{"input", "chat_history"},
		Temperature:       0.0,
		MaxOutputTokens:   300,
	},
	DiagramModification: {
		Name:              DiagramModification,
		PromptTemplate:    diagramModificationTemplate,
		RequiredVariables: []string{"input", "chat_history"},
		Temperature:       0.0,
		MaxOutputTokens:   300,
	},
	CodeGeneration: {
		Name:              CodeGeneration,
		PromptTemplate:    codeGenerationTemplate,
		RequiredVariables: []string{"input", "chat_history"},
		Temperature:       0.0,
		MaxOutputTokens:   300,
	},
	CodeModification: {
		Name:              CodeModification,
		PromptTemplate:    codeModificationTemplate,
		RequiredVariables: []string{"input", "chat_history"},
		Temperature:       0.0,
		MaxOutputTokens:   300,
	},
	Conversation: {
		Name:              Conversation,
		PromptTemplate:    conversationTemplate,
		RequiredVariables: []string{"input", "chat_history"},
		Temperature:       0.2,
		MaxOutputTokens:   100,
	},
	ValidationRequirements: {
		Name:              ValidationRequirements,
		PromptTemplate:    validationRequirementsTemplate,
		RequiredVariables: []string{"requirement"},
		Temperature:       0.0,
		MaxOutputTokens:   300,
	},
	RequirementsRefinement: {
		Name:              RequirementsRefinement,
		PromptTemplate:    requirementsRefinementTemplate,
		RequiredVariables: []string{"input", "chat_history"},
		Temperature:       0.2,
		MaxOutputTokens:   400,
	},
	RequirementsAnalysis: {
		Name:              RequirementsAnalysis,
		PromptTemplate:    requirementsAnalysisTemplate,
		RequiredVariables: []string{"input", "chat_history"},
		Temperature:       0.2,
		MaxOutputTokens:   400,
	},
	TechnologyDetection: {
		Name:              TechnologyDetection,
		PromptTemplate:    technologyDetectionTemplate,
		RequiredVariables: []string{"prompt", "context"},
		Temperature:       0.0,
		MaxOutputTokens:   1024,
	},
	ProjectCodeGeneration: {
		Name:              ProjectCodeGeneration,
		PromptTemplate:    projectCodeGenerationTemplate,
		RequiredVariables: []string{"input"},
		Temperature:       0.2,
		MaxOutputTokens:   4096,
	},
}

// Lookup returns the chain spec registered under the given name
func Lookup(name ChainName) (ChainSpec, error) {
	spec, ok := registry[name]
	if !ok {
		return ChainSpec{}, pkgerrors.NewDomainError(
			pkgerrors.DomainNotFoundError,
			"UNKNOWN_CHAIN",
			fmt.Sprintf("Chain '%s' is not registered", name),
		).WithDetail("chain", string(name))
	}
	return spec, nil
}

// All returns every registered chain spec sorted by name
func All() []ChainSpec {
	specs := make([]ChainSpec, 0, len(registry))
	for _, spec := range registry {
		specs = append(specs, spec)
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}

// Render substitutes the supplied variables into the template. Every required
// variable must be present; substitution is a single pass, so variable values
// containing placeholder-like text are never re-expanded.
func (s ChainSpec) Render(vars map[string]string) (string, error) {
	for _, required := range s.RequiredVariables {
		if _, ok := vars[required]; !ok {
			return "", pkgerrors.NewDomainError(
				pkgerrors.DomainValidationError,
				"MISSING_CHAIN_VARIABLE",
				fmt.Sprintf("Chain '%s' requires template variable '%s'", s.Name, required),
			).WithDetail("chain", string(s.Name)).WithDetail("variable", required)
		}
	}

	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(s.PromptTemplate), nil
}
