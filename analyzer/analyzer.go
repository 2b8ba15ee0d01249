package analyzer

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"docai/analyzer/contracts"
	"docai/analyzer/models"
	"docai/utils"
)

// Files larger than this are skipped during analysis.
const maxAnalyzedFileSize = 100 * 1024

var (
	sectionRegex    = regexp.MustCompile(`\\section\{([^}]*)\}`)
	subsectionRegex = regexp.MustCompile(`\\subsection\{([^}]*)\}`)
	titleRegex      = regexp.MustCompile(`\\title\{([^}]*)\}`)
	abstractRegex   = regexp.MustCompile(`\\abstract\{([^}]*)\}`)
	commentRegex    = regexp.MustCompile(`# *(.*)`)
)

// ProjectAnalyzer walks a project tree and extracts per-file metadata into
// a ProjectAnalysis document.
type ProjectAnalyzer struct {
	ProjectRoot string
	ProjectName string
	cache       *ContentCache
}

// NewProjectAnalyzer initializes an analyzer for the given root. The content
// cache is optional; analysis proceeds uncached when it cannot be created.
func NewProjectAnalyzer(projectRoot string, projectName string) contracts.IProjectAnalyzer {
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		root = projectRoot
	}
	if projectName == "" {
		projectName = filepath.Base(root)
	}

	cache, err := NewContentCache(filepath.Join(root, ".cache"))
	if err != nil {
		log.Printf("Warning: failed to initialize content cache: %v", err)
		cache = nil
	}

	return &ProjectAnalyzer{
		ProjectRoot: root,
		ProjectName: projectName,
		cache:       cache,
	}
}

// AnalyzeProject analyzes the whole tree and returns the structured result.
func (analyzer *ProjectAnalyzer) AnalyzeProject() (*models.ProjectAnalysis, error) {
	patterns, err := utils.GetIgnorePatterns(analyzer.ProjectRoot)
	if err != nil {
		return nil, err
	}

	root, err := analyzer.analyzeDirectory(analyzer.ProjectRoot, patterns)
	if err != nil {
		return nil, err
	}

	return &models.ProjectAnalysis{
		ProjectName:       analyzer.ProjectName,
		RootDirectory:     root,
		AnalysisTimestamp: models.Timestamp(),
	}, nil
}

// SaveAnalysis writes the analysis document as indented JSON.
func (analyzer *ProjectAnalyzer) SaveAnalysis(analysis *models.ProjectAnalysis, outputPath string) error {
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write analysis to %s: %w", outputPath, err)
	}
	return nil
}

// ClearCache removes all cached file contents.
func (analyzer *ProjectAnalyzer) ClearCache() error {
	if analyzer.cache == nil {
		return nil
	}
	return analyzer.cache.Clear()
}

// CacheStats reports the number of cache entries and their total size.
func (analyzer *ProjectAnalyzer) CacheStats() (int, int64, error) {
	if analyzer.cache == nil {
		return 0, 0, nil
	}
	return analyzer.cache.Stats()
}

// LoadAnalysis reads a previously saved analysis document.
func LoadAnalysis(inputPath string) (*models.ProjectAnalysis, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis file %s: %w", inputPath, err)
	}
	var analysis models.ProjectAnalysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis file %s: %w", inputPath, err)
	}
	return &analysis, nil
}

func (analyzer *ProjectAnalyzer) analyzeDirectory(dirPath string, patterns []string) (*models.DirectoryNode, error) {
	relativePath, err := filepath.Rel(analyzer.ProjectRoot, dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve relative path for %s: %w", dirPath, err)
	}
	relativePath = filepath.ToSlash(relativePath)

	node := models.NewDirectoryNode(filepath.Base(dirPath), relativePath)

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dirPath, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		entryPath := filepath.Join(dirPath, name)

		if entry.IsDir() {
			if utils.IsIgnoredDir(name) {
				continue
			}
			subdir, err := analyzer.analyzeDirectory(entryPath, patterns)
			if err != nil {
				return nil, err
			}
			if len(subdir.Files) > 0 || len(subdir.Subdirectories) > 0 {
				node.AddSubdirectory(name, subdir)
			}
			continue
		}

		entryRel := filepath.ToSlash(strings.TrimPrefix(entryPath, analyzer.ProjectRoot+string(filepath.Separator)))
		if utils.IsPatternIgnored(entryRel, patterns) {
			continue
		}

		lower := strings.ToLower(name)
		switch {
		case strings.HasSuffix(lower, ".py"):
			node.AddFile(name, analyzer.analyzePythonFile(entryPath))
		case strings.HasSuffix(lower, ".tex"):
			node.AddFile(name, analyzer.analyzeLatexFile(entryPath))
		case strings.HasSuffix(lower, ".txt"), lower == "readme", lower == "readme.md":
			node.AddFile(name, analyzer.analyzeTextFile(entryPath))
		}
	}

	return node, nil
}

// readContent reads a file through the content cache.
func (analyzer *ProjectAnalyzer) readContent(filePath string) ([]byte, error) {
	if analyzer.cache != nil {
		if content, found := analyzer.cache.Get(filePath); found {
			return content, nil
		}
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	if analyzer.cache != nil {
		if err := analyzer.cache.Set(filePath, content); err != nil {
			log.Printf("Warning: failed to cache %s: %v", filePath, err)
		}
	}
	return content, nil
}

func (analyzer *ProjectAnalyzer) errorRecord(filePath string, fileType models.FileType, err error) *models.FileRecord {
	record := &models.FileRecord{
		Type:         fileType,
		RelativePath: analyzer.relativePath(filePath),
		Error:        err.Error(),
	}
	if info, statErr := os.Stat(filePath); statErr == nil {
		record.Size = info.Size()
	}
	return record
}

func (analyzer *ProjectAnalyzer) relativePath(filePath string) string {
	rel, err := filepath.Rel(analyzer.ProjectRoot, filePath)
	if err != nil {
		return filePath
	}
	return filepath.ToSlash(rel)
}

func (analyzer *ProjectAnalyzer) analyzePythonFile(filePath string) *models.FileRecord {
	info, err := os.Stat(filePath)
	if err != nil {
		return analyzer.errorRecord(filePath, models.FileTypePython, err)
	}
	if info.Size() > maxAnalyzedFileSize {
		return analyzer.errorRecord(filePath, models.FileTypePython, fmt.Errorf("file exceeds analysis size limit"))
	}

	content, err := analyzer.readContent(filePath)
	if err != nil {
		return analyzer.errorRecord(filePath, models.FileTypePython, err)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree := parser.Parse(nil, content)
	root := tree.RootNode()

	if root.HasError() {
		return analyzer.errorRecord(filePath, models.FileTypePython, fmt.Errorf("syntax error"))
	}

	var functions []models.PythonFunction
	var classes []models.PythonClass
	collectDefinitions(root, content, &functions, &classes)

	docstring := moduleDocstring(root, content)

	head := string(content)
	if len(head) > 500 {
		head = head[:500]
	}
	var comments []string
	for _, match := range commentRegex.FindAllStringSubmatch(head, -1) {
		comments = append(comments, match[1])
		if len(comments) == 5 {
			break
		}
	}

	return &models.FileRecord{
		Type:             models.FileTypePython,
		Size:             info.Size(),
		RelativePath:     analyzer.relativePath(filePath),
		Functions:        functions,
		Classes:          classes,
		Docstring:        docstring,
		InitialComments:  comments,
		EstimatedPurpose: estimatePurpose(docstring, comments),
	}
}

func (analyzer *ProjectAnalyzer) analyzeLatexFile(filePath string) *models.FileRecord {
	info, err := os.Stat(filePath)
	if err != nil {
		return analyzer.errorRecord(filePath, models.FileTypeLatex, err)
	}

	content, err := analyzer.readContent(filePath)
	if err != nil {
		return analyzer.errorRecord(filePath, models.FileTypeLatex, err)
	}
	text := string(content)

	var sections []string
	for _, match := range sectionRegex.FindAllStringSubmatch(text, -1) {
		sections = append(sections, match[1])
	}
	var subsections []string
	for _, match := range subsectionRegex.FindAllStringSubmatch(text, 10) {
		subsections = append(subsections, match[1])
	}

	var title, abstract string
	if match := titleRegex.FindStringSubmatch(text); match != nil {
		title = match[1]
	}
	if match := abstractRegex.FindStringSubmatch(text); match != nil {
		abstract = match[1]
	}

	purpose := abstract
	if purpose == "" {
		purpose = title
	}
	if purpose == "" {
		subject := "the project"
		if len(sections) > 0 {
			subject = sections[0]
		}
		purpose = "Technical documentation about " + subject
	}

	return &models.FileRecord{
		Type:             models.FileTypeLatex,
		Size:             info.Size(),
		RelativePath:     analyzer.relativePath(filePath),
		Title:            title,
		Abstract:         abstract,
		Sections:         sections,
		Subsections:      subsections,
		EstimatedPurpose: purpose,
	}
}

func (analyzer *ProjectAnalyzer) analyzeTextFile(filePath string) *models.FileRecord {
	info, err := os.Stat(filePath)
	if err != nil {
		return analyzer.errorRecord(filePath, models.FileTypeText, err)
	}

	content, err := analyzer.readContent(filePath)
	if err != nil {
		return analyzer.errorRecord(filePath, models.FileTypeText, err)
	}

	lines := strings.Split(string(content), "\n")
	if len(lines) > 10 {
		lines = lines[:10]
	}

	filename := strings.ToLower(filepath.Base(filePath))
	purpose := "Text documentation file"
	switch {
	case strings.Contains(filename, "readme"):
		purpose = "Project README file with general information"
	case strings.Contains(filename, "license"):
		purpose = "License file"
	case strings.Contains(filename, "install"), strings.Contains(filename, "setup"):
		purpose = "Installation or setup instructions"
	}

	return &models.FileRecord{
		Type:             models.FileTypeText,
		Size:             info.Size(),
		RelativePath:     analyzer.relativePath(filePath),
		FirstLines:       lines,
		EstimatedPurpose: purpose,
	}
}

// estimatePurpose classifies a python file from its docstring and leading
// comments. The keyword set targets the radio astronomy projects this tool
// was built for.
func estimatePurpose(docstring string, comments []string) string {
	head := docstring
	if len(comments) > 3 {
		comments = comments[:3]
	}
	head += " " + strings.Join(comments, " ")
	head = strings.ToLower(head)

	switch {
	case strings.Contains(head, "skarab") && strings.Contains(head, "adc"):
		if strings.Contains(head, "spectrometer") || strings.Contains(head, "spectrum") {
			return "Spectrometer control script for SKARAB ADC boards"
		}
		if strings.Contains(head, "capture") || strings.Contains(head, "sample") {
			return "Data capture script for SKARAB ADC boards"
		}
		return "SKARAB FPGA control script"
	case strings.Contains(head, "casperfpga"):
		return "CASPER FPGA control utilities"
	case strings.Contains(head, "fft"), strings.Contains(head, "spectrum"):
		return "Signal processing and spectral analysis tool"
	default:
		return "Support script for radio astronomy data processing"
	}
}

// collectDefinitions walks the syntax tree collecting every function and
// class definition, nested ones included.
func collectDefinitions(node *sitter.Node, source []byte, functions *[]models.PythonFunction, classes *[]models.PythonClass) {
	switch node.Type() {
	case "function_definition":
		*functions = append(*functions, models.PythonFunction{
			Name:      fieldContent(node, "name", source),
			Docstring: bodyDocstring(node, source),
			LineCount: int(node.EndPoint().Row-node.StartPoint().Row) + 1,
		})
	case "class_definition":
		*classes = append(*classes, models.PythonClass{
			Name:      fieldContent(node, "name", source),
			Docstring: bodyDocstring(node, source),
			Methods:   classMethods(node, source),
		})
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		collectDefinitions(node.NamedChild(i), source, functions, classes)
	}
}

func fieldContent(node *sitter.Node, field string, source []byte) string {
	child := node.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return child.Content(source)
}

// moduleDocstring returns the docstring of the module itself, if present.
func moduleDocstring(root *sitter.Node, source []byte) string {
	if root.NamedChildCount() == 0 {
		return ""
	}
	return docstringFromStatement(root.NamedChild(0), source)
}

// bodyDocstring returns the docstring of a function or class body.
func bodyDocstring(definition *sitter.Node, source []byte) string {
	body := definition.ChildByFieldName("body")
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	return docstringFromStatement(body.NamedChild(0), source)
}

func docstringFromStatement(statement *sitter.Node, source []byte) string {
	if statement == nil || statement.Type() != "expression_statement" || statement.NamedChildCount() == 0 {
		return ""
	}
	expr := statement.NamedChild(0)
	if expr.Type() != "string" {
		return ""
	}
	return stripPythonQuotes(expr.Content(source))
}

func classMethods(classDef *sitter.Node, source []byte) []string {
	body := classDef.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var methods []string
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		if child.Type() == "decorated_definition" {
			if def := child.ChildByFieldName("definition"); def != nil {
				child = def
			}
		}
		if child.Type() == "function_definition" {
			methods = append(methods, fieldContent(child, "name", source))
		}
	}
	return methods
}

// stripPythonQuotes removes string prefixes and quoting from a python string
// literal and trims surrounding whitespace.
func stripPythonQuotes(literal string) string {
	s := strings.TrimLeft(literal, "rRbBfFuU")
	for _, quote := range []string{`"""`, "'''", `"`, "'"} {
		if strings.HasPrefix(s, quote) && strings.HasSuffix(s, quote) && len(s) >= 2*len(quote) {
			return strings.TrimSpace(s[len(quote) : len(s)-len(quote)])
		}
	}
	return strings.TrimSpace(s)
}
