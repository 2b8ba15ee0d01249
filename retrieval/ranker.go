package retrieval

import (
	"encoding/json"
	"strings"

	"docai/analyzer/models"
	"docai/retrieval/contracts"
)

// DefaultMaxMatches caps how many ranked files survive into the prompt.
const DefaultMaxMatches = 3

// KeywordRanker matches query keywords as substrings against file paths and
// serialized file records. A file matching on both path and record appears
// twice in the candidate list, which pushes it toward the front of the
// truncated result. Coarse on purpose; the matching is lexical, not semantic.
type KeywordRanker struct {
	MaxMatches int
}

// NewKeywordRanker returns a ranker with the default match cap.
func NewKeywordRanker() contracts.IRanker {
	return &KeywordRanker{MaxMatches: DefaultMaxMatches}
}

// Rank walks the corpus in stored order (files before subdirectories) and
// returns at most MaxMatches candidates in discovery order. No deduplication
// and no scoring beyond traversal order.
func (ranker *KeywordRanker) Rank(query string, corpus *models.DirectoryNode) []contracts.RankedMatch {
	keywords := strings.Fields(strings.ToLower(query))
	if len(keywords) == 0 || corpus == nil {
		return nil
	}

	var matches []contracts.RankedMatch
	ranker.searchDirectory(corpus, "", keywords, &matches)

	if len(matches) > ranker.MaxMatches {
		matches = matches[:ranker.MaxMatches]
	}
	return matches
}

func (ranker *KeywordRanker) searchDirectory(node *models.DirectoryNode, pathPrefix string, keywords []string, matches *[]contracts.RankedMatch) {
	for _, filename := range node.FileNames() {
		record := node.Files[filename]
		fullPath := pathPrefix + filename

		if anyKeywordIn(strings.ToLower(fullPath), keywords) {
			*matches = append(*matches, contracts.RankedMatch{Path: fullPath, Record: record})
		}

		if serialized, err := json.Marshal(record); err == nil {
			if anyKeywordIn(strings.ToLower(string(serialized)), keywords) {
				*matches = append(*matches, contracts.RankedMatch{Path: fullPath, Record: record})
			}
		}
	}

	for _, subdirName := range node.SubdirNames() {
		ranker.searchDirectory(node.Subdirectories[subdirName], pathPrefix+subdirName+"/", keywords, matches)
	}
}

func anyKeywordIn(haystack string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(haystack, keyword) {
			return true
		}
	}
	return false
}
