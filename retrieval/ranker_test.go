package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docai/analyzer/models"
)

func buildTestCorpus() *models.DirectoryNode {
	root := models.NewDirectoryNode("spectrometer", "")
	root.AddFile("README.md", &models.FileRecord{
		Type:         models.FileTypeText,
		RelativePath: "README.md",
		FirstLines:   []string{"Wideband spectrometer for SKARAB boards"},
	})

	adc := models.NewDirectoryNode("adc", "adc")
	adc.AddFile("capture.py", &models.FileRecord{
		Type:             models.FileTypePython,
		RelativePath:     "adc/capture.py",
		Docstring:        "Data capture script for SKARAB ADC boards",
		EstimatedPurpose: "Data capture and recording functionality",
	})
	adc.AddFile("plot.py", &models.FileRecord{
		Type:         models.FileTypePython,
		RelativePath: "adc/plot.py",
		Docstring:    "Plot captured samples",
	})
	root.AddSubdirectory("adc", adc)

	docs := models.NewDirectoryNode("docs", "docs")
	docs.AddFile("thesis.tex", &models.FileRecord{
		Type:         models.FileTypeLatex,
		RelativePath: "docs/thesis.tex",
		Title:        "A SKARAB-based wideband spectrometer",
		Abstract:     "We describe the FPGA gateware and capture pipeline.",
	})
	root.AddSubdirectory("docs", docs)

	return root
}

func TestKeywordRanker_EmptyQuery(t *testing.T) {
	ranker := NewKeywordRanker()

	assert.Nil(t, ranker.Rank("", buildTestCorpus()))
	assert.Nil(t, ranker.Rank("   ", buildTestCorpus()))
	assert.Nil(t, ranker.Rank("capture", nil))
}

func TestKeywordRanker_PathMatch(t *testing.T) {
	ranker := NewKeywordRanker()

	matches := ranker.Rank("plot", buildTestCorpus())

	require.Len(t, matches, 2)
	// plot.py matches on its path and again on its serialized record.
	assert.Equal(t, "adc/plot.py", matches[0].Path)
	assert.Equal(t, "adc/plot.py", matches[1].Path)
	assert.Same(t, matches[0].Record, matches[1].Record)
}

func TestKeywordRanker_ContentMatchIsCaseInsensitive(t *testing.T) {
	ranker := NewKeywordRanker()

	matches := ranker.Rank("GATEWARE", buildTestCorpus())

	require.Len(t, matches, 1)
	assert.Equal(t, "docs/thesis.tex", matches[0].Path)
}

func TestKeywordRanker_CapsMatches(t *testing.T) {
	ranker := NewKeywordRanker()

	// "skarab" appears in README.md (content), capture.py (content), and
	// thesis.tex (content); plot.py does not mention it. The double-append
	// rule still keeps total results at the cap.
	matches := ranker.Rank("skarab capture", buildTestCorpus())

	require.Len(t, matches, DefaultMaxMatches)
	assert.Equal(t, "README.md", matches[0].Path)
	assert.Equal(t, "adc/capture.py", matches[1].Path)
	assert.Equal(t, "adc/capture.py", matches[2].Path)
}

func TestKeywordRanker_SpectrometerCaptureScenario(t *testing.T) {
	ranker := NewKeywordRanker()

	matches := ranker.Rank("spectrometer capture", buildTestCorpus())

	require.Len(t, matches, DefaultMaxMatches)
	assert.Equal(t, "README.md", matches[0].Path)
	assert.Equal(t, "adc/capture.py", matches[1].Path)
	assert.Equal(t, "adc/capture.py", matches[2].Path)
	assert.Equal(t, "Data capture script for SKARAB ADC boards", matches[1].Record.Docstring)
}

func TestKeywordRanker_FilesBeforeSubdirectories(t *testing.T) {
	ranker := &KeywordRanker{MaxMatches: 10}

	matches := ranker.Rank("spectrometer", buildTestCorpus())

	require.NotEmpty(t, matches)
	// README.md sits at the root and is visited before any subdirectory.
	assert.Equal(t, "README.md", matches[0].Path)
}

func TestKeywordRanker_ConfigurableCap(t *testing.T) {
	ranker := &KeywordRanker{MaxMatches: 1}

	matches := ranker.Rank("skarab", buildTestCorpus())

	require.Len(t, matches, 1)
}
