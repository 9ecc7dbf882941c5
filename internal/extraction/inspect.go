package extraction

import (
	"bytes"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// extensions resolve types that sniffing cannot tell apart from their container.
var extensions = map[string]string{
	".pdf":  TypePDF,
	".txt":  TypeText,
	".docx": TypeDOCX,
	".png":  TypePNG,
	".jpg":  TypeJPEG,
	".jpeg": TypeJPEG,
	".webp": TypeWebP,
}

// Inspect validates an upload and reads the page count of PDFs.
func Inspect(name, header string, data []byte, maxSize int64) (*File, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, ErrFileTooLarge
	}

	contentType := detectContentType(name, header, data)
	if !Allowed(contentType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	f := &File{
		Name:        name,
		ContentType: contentType,
		Data:        data,
	}

	if contentType == TypePDF {
		count, err := api.PageCount(bytes.NewReader(data), nil)
		if err != nil || count < 1 {
			return nil, ErrUnreadablePDF
		}
		f.PageCount = &count
	}

	return f, nil
}

// detectContentType prefers the declared type. Without one, the file is sniffed
// and zip containers resolve by extension.
func detectContentType(name, header string, data []byte) string {
	if ct := mediaType(header); ct != "" && ct != "application/octet-stream" {
		return normalizeType(ct)
	}

	sniffed := mediaType(http.DetectContentType(data))
	if sniffed == "application/zip" || sniffed == "application/octet-stream" {
		if ct, ok := extensions[strings.ToLower(filepath.Ext(name))]; ok {
			return ct
		}
	}
	return normalizeType(sniffed)
}

func mediaType(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(v)
	if err != nil {
		return strings.ToLower(v)
	}
	return mt
}

func normalizeType(ct string) string {
	if ct == "image/jpg" || ct == "image/pjpeg" {
		return TypeJPEG
	}
	return ct
}
