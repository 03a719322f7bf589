package model

import "time"

// StoredFile is the metadata of an uploaded binary.
// Filename is the unique stored name; Path is where the binary is served from.
type StoredFile struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimetype"`
	Size         int64     `json:"size"`
	Path         string    `json:"path"`
	UploadedAt   time.Time `json:"uploadedAt"`
}
