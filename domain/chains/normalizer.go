package chains

import (
	"fmt"
	"strings"
)

// mermaidPrefixes are boilerplate lead-ins models wrap diagrams in, checked in
// order. Matching is exact and case-sensitive.
var mermaidPrefixes = []string{
	"Here's a Mermaid.js diagram:",
	"Here is the Mermaid.js diagram:",
	"Here's the diagram:",
	"Mermaid.js code:",
	"Diagram:",
}

// CleanMermaidResponse normalizes a generated Mermaid document: trims, strips
// markdown fences, then strips boilerplate lead-ins. The function is pure and
// idempotent.
func CleanMermaidResponse(response string) string {
	clean := strings.TrimSpace(response)

	if strings.HasPrefix(clean, "```mermaid") {
		clean = strings.TrimSpace(clean[len("```mermaid"):])
	}
	if strings.HasPrefix(clean, "```") {
		clean = strings.TrimSpace(clean[3:])
	}
	if strings.HasSuffix(clean, "```") {
		clean = strings.TrimSpace(clean[:len(clean)-3])
	}

	for _, prefix := range mermaidPrefixes {
		if strings.HasPrefix(clean, prefix) {
			clean = strings.TrimSpace(clean[len(prefix):])
		}
	}

	return clean
}

// CleanCodeResponse normalizes generated source code. A fully fenced response
// loses its first and last line; a response that merely opens with a fence
// loses the three backticks. When language is given, the language-specific
// lead-ins are recognized instead of the generic ones.
func CleanCodeResponse(response, language string) string {
	clean := strings.TrimSpace(response)

	lines := strings.Split(clean, "\n")
	if len(lines) > 1 &&
		strings.HasPrefix(strings.TrimSpace(lines[0]), "```") &&
		strings.TrimSpace(lines[len(lines)-1]) == "```" {
		clean = strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimSpace(clean[3:])
	}

	var prefixes []string
	if language != "" {
		prefixes = []string{
			fmt.Sprintf("Here's the %s code:", language),
			fmt.Sprintf("Here is the %s code:", language),
		}
	} else {
		prefixes = []string{
			"Here's the code:",
			"Here is the code:",
		}
	}
	prefixes = append(prefixes, "Generated Code:", "Code:")

	for _, prefix := range prefixes {
		if strings.HasPrefix(clean, prefix) {
			clean = strings.TrimSpace(clean[len(prefix):])
		}
	}

	return clean
}

// CleanJSONResponse strips markdown fences from a structured JSON payload so
// it can be unmarshaled
func CleanJSONResponse(response string) string {
	clean := strings.TrimSpace(response)

	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimSpace(clean[len("```json"):])
	}
	if strings.HasPrefix(clean, "```") {
		clean = strings.TrimSpace(clean[3:])
	}
	if strings.HasSuffix(clean, "```") {
		clean = strings.TrimSpace(clean[:len(clean)-3])
	}

	return clean
}
