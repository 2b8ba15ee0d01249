package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryNode_PreservesInsertionOrder(t *testing.T) {
	node := NewDirectoryNode("root", "")
	node.AddFile("z.py", &FileRecord{Type: FileTypePython})
	node.AddFile("a.py", &FileRecord{Type: FileTypePython})
	node.AddSubdirectory("zeta", NewDirectoryNode("zeta", "zeta"))
	node.AddSubdirectory("alpha", NewDirectoryNode("alpha", "alpha"))

	assert.Equal(t, []string{"z.py", "a.py"}, node.FileNames())
	assert.Equal(t, []string{"zeta", "alpha"}, node.SubdirNames())
}

func TestDirectoryNode_UnmarshalPreservesDocumentOrder(t *testing.T) {
	doc := `{
		"name": "root",
		"relative_path": "",
		"files": {
			"z.py": {"type": "python", "size": 1, "relative_path": "z.py"},
			"a.py": {"type": "python", "size": 1, "relative_path": "a.py"}
		},
		"subdirectories": {
			"zeta": {"name": "zeta", "relative_path": "zeta", "files": {}, "subdirectories": {}},
			"alpha": {"name": "alpha", "relative_path": "alpha", "files": {}, "subdirectories": {}}
		}
	}`

	var node DirectoryNode
	require.NoError(t, json.Unmarshal([]byte(doc), &node))

	assert.Equal(t, "root", node.Name)
	assert.Equal(t, []string{"z.py", "a.py"}, node.FileNames())
	assert.Equal(t, []string{"zeta", "alpha"}, node.SubdirNames())
	require.NotNil(t, node.Files["a.py"])
	assert.Equal(t, "a.py", node.Files["a.py"].RelativePath)
}

func TestDirectoryNode_SortedFallbackForLiterals(t *testing.T) {
	node := &DirectoryNode{
		Name: "root",
		Files: map[string]*FileRecord{
			"b.py": {Type: FileTypePython},
			"a.py": {Type: FileTypePython},
		},
	}

	// Nodes built without AddFile have no recorded order; names come back sorted.
	assert.Equal(t, []string{"a.py", "b.py"}, node.FileNames())
}

func TestDirectoryNode_MarshalRoundTrip(t *testing.T) {
	node := NewDirectoryNode("root", "")
	node.AddFile("main.py", &FileRecord{Type: FileTypePython, Size: 42, RelativePath: "main.py"})

	data, err := json.Marshal(node)
	require.NoError(t, err)

	var decoded DirectoryNode
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, []string{"main.py"}, decoded.FileNames())
	assert.Equal(t, int64(42), decoded.Files["main.py"].Size)
}
