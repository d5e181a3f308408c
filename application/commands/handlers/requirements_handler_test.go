package handlers

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"triforge-backend/application/commands"
	pkgerrors "triforge-backend/pkg/errors"
)

const rawDocument = "The system shall let users reset passwords via email"

func (f *handlerFixture) requirements() *RequirementsHandler {
	return NewRequirementsHandler(f.saga, f.cfg, nil)
}

func TestRefineRequirementsHappyPath(t *testing.T) {
	f := newHandlerFixture(t)

	var gotPrompt string
	f.client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { gotPrompt = args.String(1) }).
		Return("\n1. Users can request a password reset email.\n", nil)

	result, err := f.requirements().Refine(context.Background(), commands.RefineRequirementsCommand{
		UserID:      "alice",
		RawDocument: rawDocument,
	})

	require.NoError(t, err)
	assert.Equal(t, "1. Users can request a password reset email.", result.RefinedRequirements)
	assert.Contains(t, gotPrompt, "Raw Document:\n"+rawDocument)
	assert.Contains(t, gotPrompt, "Output Format: structured_requirements")
	assert.Contains(t, gotPrompt, "Target Audience: development_team")
	assert.Contains(t, gotPrompt, "Include Acceptance Criteria: False")

	turns := f.turns(t, "alice")
	require.Len(t, turns, 2)
	assert.Equal(t, "Raw document to refine: "+rawDocument+"...", turns[0].Input())
	assert.Equal(t, "Processing document refinement...", turns[0].Output())
	assert.Equal(t, "Refine document into requirements", turns[1].Input())
}

func TestRefineRequirementsCustomOptions(t *testing.T) {
	f := newHandlerFixture(t)

	var gotPrompt string
	f.client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { gotPrompt = args.String(1) }).
		Return("refined", nil)

	_, err := f.requirements().Refine(context.Background(), commands.RefineRequirementsCommand{
		UserID:                    "alice",
		RawDocument:               rawDocument,
		OutputFormat:              "markdown",
		TargetAudience:            "product_owners",
		IncludeAcceptanceCriteria: true,
	})

	require.NoError(t, err)
	assert.Contains(t, gotPrompt, "Output Format: markdown")
	assert.Contains(t, gotPrompt, "Target Audience: product_owners")
	assert.Contains(t, gotPrompt, "Include Acceptance Criteria: True")
}

func TestRefineRequirementsTruncatesLongPreview(t *testing.T) {
	f := newHandlerFixture(t)
	longDoc := strings.Repeat("requirements text ", 20)

	f.client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return("refined", nil)

	_, err := f.requirements().Refine(context.Background(), commands.RefineRequirementsCommand{
		UserID:      "alice",
		RawDocument: longDoc,
	})

	require.NoError(t, err)
	turns := f.turns(t, "alice")
	require.Len(t, turns, 2)
	assert.Equal(t, "Raw document to refine: "+longDoc[:100]+"...", turns[0].Input())
}

func TestRefineRequirementsShortDocument(t *testing.T) {
	f := newHandlerFixture(t)

	_, err := f.requirements().Refine(context.Background(), commands.RefineRequirementsCommand{
		UserID:      "alice",
		RawDocument: "too short",
	})

	assert.ErrorIs(t, err, pkgerrors.ErrDocumentTooShort)
	f.client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
}

func TestRefineRequirementsLongDocument(t *testing.T) {
	f := newHandlerFixture(t)

	_, err := f.requirements().Refine(context.Background(), commands.RefineRequirementsCommand{
		UserID:      "alice",
		RawDocument: strings.Repeat("a", f.cfg.MaxDocumentLength+1),
	})

	assert.ErrorIs(t, err, pkgerrors.ErrDocumentTooLong)
}

func TestAnalyzeRequirementsSkipsBoundsAndPlaceholder(t *testing.T) {
	f := newHandlerFixture(t)

	f.client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return("Key requirement: authentication.", nil)

	result, err := f.requirements().Analyze(context.Background(), commands.AnalyzeRequirementsCommand{
		UserID:      "alice",
		RawDocument: "auth",
	})

	require.NoError(t, err)
	assert.Equal(t, "Key requirement: authentication.", result.RefinedRequirements)

	turns := f.turns(t, "alice")
	require.Len(t, turns, 1)
	assert.Equal(t, "Analyze document for requirements", turns[0].Input())
	assert.Equal(t, "Key requirement: authentication.", turns[0].Output())
}
