package clientcli

import "github.com/bananamirror/relay"

// UploadOptions configures an upload operation.
type UploadOptions struct {
	Category relay.Category
	Paths    []string
	// FileName overrides the stored name. Only valid with a single path.
	FileName string
}

// UploadResult represents the result of uploading a single file.
type UploadResult struct {
	LocalPath string         `json:"local_path"`
	FileName  string         `json:"file_name"`
	Category  relay.Category `json:"category"`
	Size      int64          `json:"size_bytes"`
	Message   string         `json:"message"`
	Err       error          `json:"-"` // nil on success
}

// MirrorOptions configures a download-by-URL operation.
type MirrorOptions struct {
	Category relay.Category
	URL      string
	// FileName defaults to the last segment of the URL path.
	FileName string
}

// MirrorResult represents the result of a mirror request.
type MirrorResult struct {
	URL      string         `json:"url"`
	FileName string         `json:"file_name"`
	Category relay.Category `json:"category"`
	Message  string         `json:"message"`
}

// DeleteOptions configures a delete operation.
type DeleteOptions struct {
	Category  relay.Category
	FileNames []string
}

// DeleteResult represents the result of one delete batch.
type DeleteResult struct {
	FileNames []string `json:"file_names"`
	Message   string   `json:"message,omitempty"`
	Err       error    `json:"-"` // nil on success
}

// uploadBody is the signed JSON body of an upload request.
type uploadBody struct {
	FileCategory relay.Category `json:"fileCategory"`
	FileName     string         `json:"fileName"`
	File         string         `json:"file"`
	Timestamp    int64          `json:"timestamp"`
}

// mirrorBody is the signed JSON body of a download-by-URL request.
type mirrorBody struct {
	FileCategory relay.Category `json:"fileCategory"`
	FileName     string         `json:"fileName"`
	DownloadURL  string         `json:"downloadUrl"`
	Timestamp    int64          `json:"timestamp"`
}

// deleteBody is the signed JSON body of a deletion request.
type deleteBody struct {
	FileCategory relay.Category `json:"fileCategory"`
	FileNames    []string       `json:"fileNames"`
	Timestamp    int64          `json:"timestamp"`
}
