// Package web holds the operator pages rendered by the HTTP handlers.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Template names
const (
	LoginPage            = "login.html"
	ApprovalPage         = "approval.html"
	CaptionGeneratorPage = "caption_generator.html"
	ErrorPage            = "error.html"
)

// MediaURL turns a stored media reference into a link the browser can load.
// Absolute URLs (S3 CDN) pass through; local references are rooted at "/".
func MediaURL(ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return "/" + strings.TrimLeft(ref, "/")
}

// IsVideo reports whether the media reference points at a video file
func IsVideo(ref string) bool {
	lower := strings.ToLower(ref)
	for _, ext := range []string{".mp4", ".webm", ".mov", ".m4v"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Parse parses all embedded templates with the helper funcs
func Parse() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"mediaURL": MediaURL,
		"isVideo":  IsVideo,
		"fmtTime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04")
		},
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}
