package models

// NodeType is the kind of a FileNode.
type NodeType string

const (
	NodeFolder NodeType = "folder"
	NodeFile   NodeType = "file"
	NodeImage  NodeType = "image"
)

// Valid reports whether t is one of the known node types.
func (t NodeType) Valid() bool {
	switch t {
	case NodeFolder, NodeFile, NodeImage:
		return true
	}
	return false
}

// FileNode is a folder, file or image in a user's hierarchy.
//
// ParentID is "0" for top-level nodes, otherwise the ID of a folder node.
// LocalPath is empty for folders and points to the stored bytes otherwise.
type FileNode struct {
	ID        string   `json:"id" bson:"_id"`
	UserID    string   `json:"userId" bson:"userId"`
	Name      string   `json:"name" bson:"name"`
	Type      NodeType `json:"type" bson:"type"`
	IsPublic  bool     `json:"isPublic" bson:"isPublic"`
	ParentID  string   `json:"parentId" bson:"parentId"`
	LocalPath string   `json:"localPath,omitempty" bson:"localPath,omitempty"`
}

// IsFolder reports whether the node is a folder.
func (n *FileNode) IsFolder() bool {
	return n.Type == NodeFolder
}
