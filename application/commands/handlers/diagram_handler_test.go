package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"triforge-backend/application/commands"
	pkgerrors "triforge-backend/pkg/errors"
)

func (f *handlerFixture) diagram() *DiagramHandler {
	return NewDiagramHandler(f.saga, f.resolver, f.cfg, nil)
}

func TestGenerateDiagramWithExplicitStories(t *testing.T) {
	f := newHandlerFixture(t)

	var gotPrompt string
	f.client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { gotPrompt = args.String(1) }).
		Return("```mermaid\n"+diagramOutput+"\n```", nil)

	result, err := f.diagram().Generate(context.Background(), commands.GenerateDiagramCommand{
		UserID:      "alice",
		DiagramType: "flowchart",
		JiraStories: storiesOutput,
	})

	require.NoError(t, err)
	assert.Equal(t, diagramOutput, result.Response)
	assert.Contains(t, gotPrompt, "Jira User Stories:\n"+storiesOutput)
	assert.Contains(t, gotPrompt, "Diagram Type: flowchart")

	turns := f.turns(t, "alice")
	require.Len(t, turns, 2)
	assert.Equal(t, "Generate a flowchart diagram for these Jira stories", turns[0].Input())
	assert.Equal(t, "Generate a flowchart diagram", turns[1].Input())
	assert.Equal(t, diagramOutput, turns[1].Output())
}

func TestGenerateDiagramNormalizesTypeAlias(t *testing.T) {
	f := newHandlerFixture(t)

	var gotPrompt string
	f.client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { gotPrompt = args.String(1) }).
		Return("erDiagram", nil)

	_, err := f.diagram().Generate(context.Background(), commands.GenerateDiagramCommand{
		UserID:      "alice",
		DiagramType: "er",
		JiraStories: storiesOutput,
	})

	require.NoError(t, err)
	assert.Contains(t, gotPrompt, "Diagram Type: entity-relationship")

	turns := f.turns(t, "alice")
	require.Len(t, turns, 2)
	assert.Equal(t, "Generate a entity-relationship diagram for these Jira stories", turns[0].Input())
}

func TestGenerateDiagramFromMemoryStories(t *testing.T) {
	f := newHandlerFixture(t)
	f.seedOutputs(t, "alice", storiesOutput)

	var gotPrompt string
	f.client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { gotPrompt = args.String(1) }).
		Return(diagramOutput, nil)

	_, err := f.diagram().Generate(context.Background(), commands.GenerateDiagramCommand{
		UserID:      "alice",
		DiagramType: "sequence",
	})

	require.NoError(t, err)
	assert.Contains(t, gotPrompt, "Jira User Stories:\n"+storiesOutput)
}

func TestGenerateDiagramNoStoriesAnywhere(t *testing.T) {
	f := newHandlerFixture(t)
	f.seedOutputs(t, "alice", diagramOutput) // not story shaped

	_, err := f.diagram().Generate(context.Background(), commands.GenerateDiagramCommand{
		UserID:      "alice",
		DiagramType: "flowchart",
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsMissingContent(err))
	assert.Contains(t, err.Error(), "No Jira stories provided or found in conversation history")
	f.client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateDiagramUnsupportedType(t *testing.T) {
	f := newHandlerFixture(t)

	_, err := f.diagram().Generate(context.Background(), commands.GenerateDiagramCommand{
		UserID:      "alice",
		DiagramType: "pie",
		JiraStories: storiesOutput,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unsupported diagram type")
	f.client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateDiagramEmptyType(t *testing.T) {
	f := newHandlerFixture(t)

	_, err := f.diagram().Generate(context.Background(), commands.GenerateDiagramCommand{
		UserID:      "alice",
		JiraStories: storiesOutput,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrDiagramTypeRequired)
}

func TestModifyDiagramWithMemoryFallback(t *testing.T) {
	// The fallback scans for diagram-shaped output, skipping newer content
	// of other shapes
	f := newHandlerFixture(t)
	f.seedOutputs(t, "alice", diagramOutput, storiesOutput)

	var gotPrompt string
	f.client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { gotPrompt = args.String(1) }).
		Return("graph TD\n    A --> C", nil)

	result, err := f.diagram().Modify(context.Background(), commands.ModifyDiagramCommand{
		UserID:             "alice",
		ModificationPrompt: "Route login failures to C",
	})

	require.NoError(t, err)
	assert.Equal(t, "graph TD\n    A --> C", result.Response)
	assert.Contains(t, gotPrompt, "Existing Mermaid.js Diagram:\n"+diagramOutput)
	assert.Contains(t, gotPrompt, "Modification Request:\n\"Route login failures to C\"")
}

func TestModifyDiagramNoDiagramAnywhere(t *testing.T) {
	f := newHandlerFixture(t)
	f.seedOutputs(t, "alice", storiesOutput)

	_, err := f.diagram().Modify(context.Background(), commands.ModifyDiagramCommand{
		UserID:             "alice",
		ModificationPrompt: "Add a cache node",
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsMissingContent(err))
	assert.Contains(t, err.Error(), "No original diagram code provided or found in conversation history")
}
