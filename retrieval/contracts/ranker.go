package contracts

import "docai/analyzer/models"

// RankedMatch is one file selected as relevant to a query. Ordering is
// significant: earlier matches are considered better.
type RankedMatch struct {
	Path   string
	Record *models.FileRecord
}

// IRanker selects a bounded set of relevant files for a query. Implementations
// are swappable so a semantic ranker can replace the keyword one without
// touching the prompt assembler or the relay.
type IRanker interface {
	Rank(query string, corpus *models.DirectoryNode) []RankedMatch
}
