package models

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"
)

// FileType classifies an analyzed file.
type FileType string

const (
	FileTypePython FileType = "python"
	FileTypeLatex  FileType = "latex"
	FileTypeText   FileType = "text"
)

// PythonFunction describes one top-level or nested function definition.
type PythonFunction struct {
	Name      string `json:"name"`
	Docstring string `json:"docstring,omitempty"`
	LineCount int    `json:"line_count,omitempty"`
}

// PythonClass describes one class definition and its method names.
type PythonClass struct {
	Name      string   `json:"name"`
	Docstring string   `json:"docstring,omitempty"`
	Methods   []string `json:"methods,omitempty"`
}

// FileRecord holds the extracted metadata for a single analyzed file.
// Either the type-specific fields or Error is set, never both.
type FileRecord struct {
	Type             FileType `json:"type"`
	Size             int64    `json:"size"`
	RelativePath     string   `json:"relative_path"`
	EstimatedPurpose string   `json:"estimated_purpose,omitempty"`
	Error            string   `json:"error,omitempty"`

	// python
	Functions       []PythonFunction `json:"functions,omitempty"`
	Classes         []PythonClass    `json:"classes,omitempty"`
	Docstring       string           `json:"docstring,omitempty"`
	InitialComments []string         `json:"initial_comments,omitempty"`

	// latex
	Title       string   `json:"title,omitempty"`
	Abstract    string   `json:"abstract,omitempty"`
	Sections    []string `json:"sections,omitempty"`
	Subsections []string `json:"subsections,omitempty"`

	// text
	FirstLines []string `json:"first_lines,omitempty"`
}

// DirectoryNode mirrors one directory of the analyzed project. The tree is
// built once per analysis run and read-only afterwards. Hidden directories
// and cache directories never appear.
type DirectoryNode struct {
	Name           string                    `json:"name"`
	RelativePath   string                    `json:"relative_path"`
	Files          map[string]*FileRecord    `json:"files"`
	Subdirectories map[string]*DirectoryNode `json:"subdirectories"`

	fileOrder   []string
	subdirOrder []string
}

// ProjectAnalysis is the loadable analysis document produced by the analyzer.
type ProjectAnalysis struct {
	ProjectName       string         `json:"project_name"`
	RootDirectory     *DirectoryNode `json:"root_directory"`
	AnalysisTimestamp string         `json:"analysis_timestamp"`
}

// NewDirectoryNode creates an empty node for the given directory.
func NewDirectoryNode(name, relativePath string) *DirectoryNode {
	return &DirectoryNode{
		Name:           name,
		RelativePath:   relativePath,
		Files:          make(map[string]*FileRecord),
		Subdirectories: make(map[string]*DirectoryNode),
	}
}

// AddFile records a file under this node, preserving insertion order.
func (d *DirectoryNode) AddFile(name string, record *FileRecord) {
	if d.Files == nil {
		d.Files = make(map[string]*FileRecord)
	}
	if _, exists := d.Files[name]; !exists {
		d.fileOrder = append(d.fileOrder, name)
	}
	d.Files[name] = record
}

// AddSubdirectory records a child directory, preserving insertion order.
func (d *DirectoryNode) AddSubdirectory(name string, node *DirectoryNode) {
	if d.Subdirectories == nil {
		d.Subdirectories = make(map[string]*DirectoryNode)
	}
	if _, exists := d.Subdirectories[name]; !exists {
		d.subdirOrder = append(d.subdirOrder, name)
	}
	d.Subdirectories[name] = node
}

// FileNames returns file names in stored order. Nodes built without AddFile
// (struct literals, hand-written tests) fall back to sorted keys so traversal
// stays deterministic.
func (d *DirectoryNode) FileNames() []string {
	if len(d.fileOrder) == len(d.Files) {
		return d.fileOrder
	}
	return sortedKeysFiles(d.Files)
}

// SubdirNames returns child directory names in stored order.
func (d *DirectoryNode) SubdirNames() []string {
	if len(d.subdirOrder) == len(d.Subdirectories) {
		return d.subdirOrder
	}
	return sortedKeysDirs(d.Subdirectories)
}

// UnmarshalJSON decodes a node and recovers the document order of its file
// and subdirectory keys, so a loaded corpus traverses in the order the
// analysis document stored them.
func (d *DirectoryNode) UnmarshalJSON(data []byte) error {
	type alias DirectoryNode
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*d = DirectoryNode(a)

	var raw struct {
		Files          json.RawMessage `json:"files"`
		Subdirectories json.RawMessage `json:"subdirectories"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var err error
	if d.fileOrder, err = objectKeys(raw.Files); err != nil {
		return err
	}
	if d.subdirOrder, err = objectKeys(raw.Subdirectories); err != nil {
		return err
	}
	return nil
}

func sortedKeysFiles(m map[string]*FileRecord) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeysDirs(m map[string]*DirectoryNode) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// objectKeys returns the top-level keys of a JSON object in document order.
func objectKeys(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	t, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := t.(json.Delim); !ok || delim != '{' {
		return nil, nil
	}
	var keys []string
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := kt.(string)
		keys = append(keys, key)
		if err := skipValue(dec); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func skipValue(dec *json.Decoder) error {
	t, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := t.(json.Delim)
	if !ok || (delim != '{' && delim != '[') {
		return nil
	}
	depth := 1
	for depth > 0 {
		t, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := t.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}

// Timestamp returns the current time formatted the way the analysis document
// stores it.
func Timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
