package valueobjects

import (
	"regexp"
	"strings"
)

// ArtifactKind identifies the shape of a generated artifact. The kind of an
// assistant turn is never stored; it is re-detected from the text on demand.
type ArtifactKind string

const (
	ArtifactJiraStories ArtifactKind = "jira stories"
	ArtifactDiagram     ArtifactKind = "diagram"
	ArtifactCode        ArtifactKind = "code"
	ArtifactProject     ArtifactKind = "project"
)

// storyHeaderPattern matches a Markdown story section header. The regex is
// case-sensitive; only the story-points probe below is case-folded.
var storyHeaderPattern = regexp.MustCompile(`##\s*As a\s*`)

// mermaidStarters are the diagram declarations a Mermaid document can open with
var mermaidStarters = []string{
	"graph",
	"sequenceDiagram",
	"classDiagram",
	"erDiagram",
	"stateDiagram",
	"gantt",
	"journey",
}

// codePatterns are language signatures that mark a text as source code
var codePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)def\s+\w+\s*\(`),             // Python functions
	regexp.MustCompile(`(?im)class\s+\w+`),                // Class definitions
	regexp.MustCompile(`(?im)import\s+\w+`),               // Import statements
	regexp.MustCompile(`(?im)from\s+\w+\s+import`),        // From imports
	regexp.MustCompile(`(?im)function\s+\w+\s*\(`),        // JavaScript functions
	regexp.MustCompile(`(?im)public\s+class\s+\w+`),       // Java classes
	regexp.MustCompile(`(?im)public\s+static\s+void\s+main`), // Java main
	regexp.MustCompile(`(?im)#include\s*<`),               // C/C++ includes
	regexp.MustCompile(`(?im)int\s+main\s*\(`),            // C/C++ main
	regexp.MustCompile(`(?im)console\.log\s*\(`),          // JavaScript console.log
	regexp.MustCompile(`(?im)System\.out\.println`),       // Java print
	regexp.MustCompile(`(?im)print\s*\(`),                 // Python print
}

// IsJiraStories reports whether the text looks like generated Jira user stories
func IsJiraStories(text string) bool {
	return storyHeaderPattern.MatchString(text) ||
		strings.Contains(strings.ToLower(text), "story points")
}

// IsMermaidDiagram reports whether the text looks like a Mermaid.js document
func IsMermaidDiagram(text string) bool {
	trimmed := strings.TrimSpace(text)
	for _, starter := range mermaidStarters {
		if strings.HasPrefix(trimmed, starter) {
			return true
		}
	}
	return false
}

// IsCode reports whether the text carries any known source-code signature
func IsCode(text string) bool {
	trimmed := strings.TrimSpace(text)
	for _, pattern := range codePatterns {
		if pattern.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// Matches reports whether the text has the shape of this artifact kind
func (k ArtifactKind) Matches(text string) bool {
	switch k {
	case ArtifactJiraStories:
		return IsJiraStories(text)
	case ArtifactDiagram:
		return IsMermaidDiagram(text)
	case ArtifactCode:
		return IsCode(text)
	default:
		return false
	}
}

// String returns the human-readable name of the artifact kind
func (k ArtifactKind) String() string {
	return string(k)
}
