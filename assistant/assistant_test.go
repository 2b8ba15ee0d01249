package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analyzermodels "docai/analyzer/models"
	providermodels "docai/providers/models"
	"docai/retrieval"
)

// promptCapture records the prompt it receives instead of answering.
type promptCapture struct {
	prompt string
}

func (p *promptCapture) Complete(ctx context.Context, prompt string) (string, error) {
	p.prompt = prompt
	return "ok", nil
}

func (p *promptCapture) ChatCompletionRequest(ctx context.Context, prompt string) <-chan providermodels.StreamResponse {
	p.prompt = prompt
	ch := make(chan providermodels.StreamResponse, 1)
	ch <- providermodels.StreamResponse{Frame: "data: [DONE]\n\n", Done: true}
	close(ch)
	return ch
}

func newTestAssistant(t *testing.T, corpus *analyzermodels.ProjectAnalysis) (*Assistant, *promptCapture) {
	t.Helper()
	provider := &promptCapture{}
	enricher := retrieval.NewContentEnricher(t.TempDir(), 0)
	builder := retrieval.NewPromptBuilder(retrieval.ProjectMeta{Name: "spectrometer", Overview: "test"}, enricher, 0)
	return New(corpus, retrieval.NewKeywordRanker(), builder, provider), provider
}

func TestAssistant_AskPassesAssembledPrompt(t *testing.T) {
	root := analyzermodels.NewDirectoryNode("spectrometer", "")
	root.AddFile("capture.py", &analyzermodels.FileRecord{
		Type:         analyzermodels.FileTypePython,
		RelativePath: "capture.py",
		Docstring:    "Data capture script",
	})

	ai, provider := newTestAssistant(t, &analyzermodels.ProjectAnalysis{
		ProjectName:   "spectrometer",
		RootDirectory: root,
	})

	answer, err := ai.Ask(context.Background(), "how does capture work?")
	require.NoError(t, err)
	assert.Equal(t, "ok", answer)

	assert.Contains(t, provider.prompt, "User Question: how does capture work?")
	assert.Contains(t, provider.prompt, "File: capture.py")
}

func TestAssistant_NilCorpusStillAnswers(t *testing.T) {
	ai, provider := newTestAssistant(t, nil)

	_, err := ai.Ask(context.Background(), "anything")
	require.NoError(t, err)

	assert.Contains(t, provider.prompt, "User Question: anything")
	assert.NotContains(t, provider.prompt, "Relevant files")
}

func TestAssistant_AskStreamRelaysEvents(t *testing.T) {
	ai, _ := newTestAssistant(t, nil)

	var events []providermodels.StreamResponse
	for event := range ai.AskStream(context.Background(), "q") {
		events = append(events, event)
	}

	require.Len(t, events, 1)
	assert.True(t, events[0].Done)
}
