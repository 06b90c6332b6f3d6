package models

// ThumbnailJob asks the worker to derive resized variants of an image node.
type ThumbnailJob struct {
	UserID string `json:"userId"`
	FileID string `json:"fileId"`
}
