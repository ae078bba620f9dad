package models

import "fmt"

const (
	DefaultIcon     = "📦"
	DefaultFileSize = "N/A"
	DefaultCategory = "tools"
)

// Resource is a row of download_resources.
type Resource struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Icon          string  `json:"icon"`
	Description   string  `json:"description"`
	DriveFileID   string  `json:"drive_file_id"`
	FileSize      string  `json:"file_size"`
	ImageURL      *string `json:"image_url"`
	Category      string  `json:"category"`
	IsActive      *bool   `json:"is_active"`
	DownloadCount int64   `json:"download_count"`
	CreatedAt     string  `json:"created_at,omitempty"`
}

// Active treats a missing flag as active.
func (r *Resource) Active() bool {
	return r.IsActive == nil || *r.IsActive
}

// ResourceResponse adds the computed download link.
type ResourceResponse struct {
	Resource
	Active       bool   `json:"active"`
	DownloadLink string `json:"download_link"`
}

// ResourceInput is the create/edit form. ID 0 creates.
type ResourceInput struct {
	ID          int64  `json:"id,omitempty"`
	Title       string `json:"title" example:"Nmap cheatsheet"`
	Icon        string `json:"icon" example:"📦"`
	Description string `json:"description"`
	DriveFileID string `json:"drive_file_id" example:"1AbCdEfGh"`
	FileSize    string `json:"file_size" example:"2 MB"`
	ImageURL    string `json:"image_url"`
	Category    string `json:"category" example:"tools"`
	IsActive    *bool  `json:"is_active"`
}

// ResourceList is the resources view. When the table does not exist
// TableMissing is set and Resources is empty.
type ResourceList struct {
	Resources    []ResourceResponse `json:"resources"`
	TableMissing bool               `json:"table_missing"`
	Notice       string             `json:"notice,omitempty"`
}

// DownloadLink is the direct download URL of a Drive file.
func DownloadLink(driveID string) string {
	return fmt.Sprintf("https://drive.google.com/uc?export=download&id=%s", driveID)
}
