package domain

import "time"

// File is the metadata record for a stored object. The object bytes live in
// the external object store under StorageKey.
type File struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	FolderID   *string   `json:"folder_id,omitempty"`
	Name       string    `json:"name"`
	MimeType   string    `json:"mime_type"`
	Size       int64     `json:"size"`
	StorageKey string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Folder is a node in a user's folder hierarchy. Root folders have no parent.
type Folder struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	ParentID  *string   `json:"parent_id,omitempty"`
	Name      string    `json:"name"`
	IsRoot    bool      `json:"is_root"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ShareLink grants token-based access to a file.
type ShareLink struct {
	ID         string     `json:"id"`
	FileID     string     `json:"file_id"`
	CreatedBy  string     `json:"created_by"`
	Token      string     `json:"token"`
	Permission string     `json:"permission"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
