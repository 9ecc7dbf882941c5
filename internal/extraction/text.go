package extraction

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/JaimeStill/scout/internal/gemini"
	"github.com/JaimeStill/scout/pkg/formatting"
)

// maxDocumentXML bounds the decompressed body of a DOCX.
const maxDocumentXML = 64 << 20

// localText reads the text of formats that need no model: plain text and DOCX.
func localText(f *File) (string, error) {
	var (
		text string
		err  error
	)

	switch f.ContentType {
	case TypeText:
		if !utf8.Valid(f.Data) {
			return "", fmt.Errorf("%w: invalid utf-8", ErrNoText)
		}
		text = string(f.Data)
	case TypeDOCX:
		text, err = docxText(f.Data)
		if err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("%w: %s", ErrNoText, f.ContentType)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: open docx: %w", ErrNoText, err)
	}

	for _, zf := range zr.File {
		if zf.Name != "word/document.xml" {
			continue
		}

		rc, err := zf.Open()
		if err != nil {
			return "", fmt.Errorf("%w: open document.xml: %w", ErrNoText, err)
		}
		defer rc.Close()

		return documentXMLText(io.LimitReader(rc, maxDocumentXML))
	}

	return "", fmt.Errorf("%w: docx has no word/document.xml", ErrNoText)
}

// documentXMLText collects w:t runs, turning paragraphs and breaks into newlines.
func documentXMLText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var (
		sb     strings.Builder
		inText bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: parse document.xml: %w", ErrNoText, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return sb.String(), nil
}

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s().\-]{7,}\d`)
	yearsPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\+?\s*(?:years?|yrs?)`)
	skillsLabel  = regexp.MustCompile(`(?i)^\s*(?:technical\s+)?skills\s*[:\-]\s*(.+)$`)
	titleLabel   = regexp.MustCompile(`(?i)^\s*(?:title|position|role)\s*[:\-]\s*(.+)$`)
)

// parseText reads profile fields from plain resume text without the model.
// Only fields with a recognizable shape are filled.
func parseText(text string) *gemini.ExtractedProfile {
	p := &gemini.ExtractedProfile{ResumeText: gemini.Text(text)}

	if m := emailPattern.FindString(text); m != "" {
		p.Email = gemini.Text(m)
	}
	if m := phonePattern.FindString(text); m != "" {
		p.PhoneNumber = gemini.Text(strings.TrimSpace(m))
	}
	if m := yearsPattern.FindStringSubmatch(text); m != nil {
		p.YearsOfExperience = gemini.Text(m[1])
	}

	lines := strings.Split(text, "\n")
	for _, line := range lines {
		if m := skillsLabel.FindStringSubmatch(line); m != nil && len(p.Skills) == 0 {
			p.Skills = gemini.List(formatting.SplitList(m[1]))
		}
		if m := titleLabel.FindStringSubmatch(line); m != nil && p.JobTitle == "" {
			p.JobTitle = gemini.Text(strings.TrimSpace(m[1]))
		}
	}

	if name := nameLine(lines); name != "" {
		p.FullName = gemini.Text(name)
	}

	return p
}

// nameLine returns the first non-empty line when it reads like a name: two to
// five words without digits or an address.
func nameLine(lines []string) string {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 5 {
			return ""
		}
		if strings.ContainsAny(line, "0123456789@:/|") {
			return ""
		}
		return strings.Join(words, " ")
	}
	return ""
}
