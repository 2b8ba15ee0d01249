// Package assistant wires the retrieval pipeline to the chat provider:
// corpus -> ranker -> enricher -> prompt -> relay.
package assistant

import (
	"context"

	analyzermodels "docai/analyzer/models"
	providercontracts "docai/providers/contracts"
	providermodels "docai/providers/models"
	"docai/retrieval"
	retrievalcontracts "docai/retrieval/contracts"
)

// Assistant answers questions about one analyzed project. It holds only
// read-only state, so concurrent questions need no coordination.
type Assistant struct {
	Corpus   *analyzermodels.ProjectAnalysis
	Ranker   retrievalcontracts.IRanker
	Builder  *retrieval.PromptBuilder
	Provider providercontracts.IChatAIProvider
}

// New creates an assistant over a loaded corpus.
func New(corpus *analyzermodels.ProjectAnalysis, ranker retrievalcontracts.IRanker, builder *retrieval.PromptBuilder, provider providercontracts.IChatAIProvider) *Assistant {
	return &Assistant{
		Corpus:   corpus,
		Ranker:   ranker,
		Builder:  builder,
		Provider: provider,
	}
}

// BuildPrompt ranks the corpus for the question and assembles the prompt.
func (a *Assistant) BuildPrompt(question string) string {
	var root *analyzermodels.DirectoryNode
	if a.Corpus != nil {
		root = a.Corpus.RootDirectory
	}
	matches := a.Ranker.Rank(question, root)
	return a.Builder.BuildPrompt(question, matches)
}

// Ask returns the complete answer for a question.
func (a *Assistant) Ask(ctx context.Context, question string) (string, error) {
	return a.Provider.Complete(ctx, a.BuildPrompt(question))
}

// AskStream streams the answer for a question as it arrives.
func (a *Assistant) AskStream(ctx context.Context, question string) <-chan providermodels.StreamResponse {
	return a.Provider.ChatCompletionRequest(ctx, a.BuildPrompt(question))
}
