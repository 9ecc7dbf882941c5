// Package extraction turns an uploaded resume into a stored candidate profile.
// A run validates the file, stores it, extracts profile fields with the model,
// normalizes them, and upserts the profile.
package extraction

import (
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"
)

// Supported resume content types.
const (
	TypePDF  = "application/pdf"
	TypeText = "text/plain"
	TypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	TypePNG  = "image/png"
	TypeJPEG = "image/jpeg"
	TypeWebP = "image/webp"
)

var allowed = map[string]bool{
	TypePDF:  true,
	TypeText: true,
	TypeDOCX: true,
	TypePNG:  true,
	TypeJPEG: true,
	TypeWebP: true,
}

// Allowed reports whether contentType is an accepted resume type.
func Allowed(contentType string) bool {
	return allowed[contentType]
}

// File is a validated upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
	PageCount   *int
}

// Result is the payload of a completed extraction.
type Result struct {
	Success   bool      `json:"success"`
	ProfileID uuid.UUID `json:"profile_id"`
	Message   string    `json:"message"`
}

// Progress steps of a run.
const (
	StepUpload  = "Uploading file..."
	StepExtract = "Extracting text..."
	StepAnalyze = "Analyzing content..."
	StepSave    = "Saving to database..."

	totalSteps = 4
)

func storageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("resumes/%s/%s", id, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "/" || name == "" {
		name = "resume"
	}
	return url.PathEscape(name)
}
