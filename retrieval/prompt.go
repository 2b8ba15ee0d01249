package retrieval

import (
	"fmt"
	"strings"

	"docai/retrieval/contracts"
)

// Maximum characters of a docstring or abstract shown as a file description.
const descriptionPreviewChars = 300

// ProjectMeta names the project and summarizes it for the prompt preamble.
type ProjectMeta struct {
	Name     string
	Overview string
}

// PromptBuilder assembles the final prompt from project metadata, ranked
// matches, and the user question. The output is deterministic for identical
// inputs: matches are emitted in ranking order, duplicates verbatim.
type PromptBuilder struct {
	Meta     ProjectMeta
	Enricher *ContentEnricher

	// MaxPromptChars caps the total assembled prompt. When a file block would
	// push past the cap, that block and all later ones are dropped whole;
	// the preamble and the question block always survive. Zero disables the cap.
	MaxPromptChars int
}

// NewPromptBuilder wires a builder for a project.
func NewPromptBuilder(meta ProjectMeta, enricher *ContentEnricher, maxPromptChars int) *PromptBuilder {
	return &PromptBuilder{Meta: meta, Enricher: enricher, MaxPromptChars: maxPromptChars}
}

// BuildPrompt renders the fixed template: preamble, one block per match,
// then the user question with the answer instructions.
func (builder *PromptBuilder) BuildPrompt(query string, matches []contracts.RankedMatch) string {
	preamble := fmt.Sprintf(`You are an AI assistant specialized in the %s project.

Project Context:
- Project Name: %s
- Overview: %s

`, builder.Meta.Name, builder.Meta.Name, builder.Meta.Overview)

	trailer := fmt.Sprintf(`

User Question: %s

Please provide a helpful and accurate response based on the project context.
If the question relates to specific files, reference those files in your response.
Answer in the user's preferred language.
`, query)

	var prompt strings.Builder
	prompt.WriteString(preamble)

	if len(matches) > 0 {
		capped := builder.MaxPromptChars > 0
		budget := 0
		if capped {
			budget = builder.MaxPromptChars - len(preamble) - len(trailer)
		}

		header := "Relevant files related to the query:\n"
		prompt.WriteString(header)
		used := len(header)

		for _, match := range matches {
			block := builder.fileBlock(match)
			if capped && used+len(block) > budget {
				break
			}
			prompt.WriteString(block)
			used += len(block)
		}
	}

	prompt.WriteString(trailer)
	return prompt.String()
}

func (builder *PromptBuilder) fileBlock(match contracts.RankedMatch) string {
	var block strings.Builder

	block.WriteString(fmt.Sprintf("\nFile: %s\n", match.Path))

	record := match.Record
	if record == nil {
		return block.String()
	}

	if record.EstimatedPurpose != "" {
		block.WriteString(fmt.Sprintf("Purpose: %s\n", record.EstimatedPurpose))
	}

	description := record.Docstring
	if description == "" {
		description = record.Abstract
	}
	if description != "" {
		runes := []rune(description)
		if len(runes) > descriptionPreviewChars {
			description = string(runes[:descriptionPreviewChars])
		}
		block.WriteString(fmt.Sprintf("Description: %s...\n", description))
	}

	if record.RelativePath != "" {
		content := builder.Enricher.Enrich(record.RelativePath)
		block.WriteString(fmt.Sprintf("File Content:\n```\n%s\n```\n", content))
	}

	return block.String()
}
