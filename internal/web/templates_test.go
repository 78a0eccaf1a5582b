package web

import (
	"bytes"
	"testing"
	"time"

	"github.com/damoang/caption-queue/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_AllPagesPresent(t *testing.T) {
	tmpl, err := Parse()
	require.NoError(t, err)

	for _, name := range []string{LoginPage, ApprovalPage, CaptionGeneratorPage, ErrorPage} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestMediaURL(t *testing.T) {
	assert.Equal(t, "/uploads/1-ab.mp4", MediaURL("uploads/1-ab.mp4"))
	assert.Equal(t, "/uploads/1-ab.mp4", MediaURL("/uploads/1-ab.mp4"))
	assert.Equal(t, "https://cdn.example.com/media/a.jpg", MediaURL("https://cdn.example.com/media/a.jpg"))
}

func TestApprovalPage_EscapesAndListsComments(t *testing.T) {
	tmpl, err := Parse()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, ApprovalPage, map[string]interface{}{
		"Username": "admin",
		"Posts": []domain.Post{{
			ID:        4,
			Caption:   "<script>alert(1)</script>",
			MediaPath: "uploads/4.mp4",
			CreatedAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
			Comments:  []domain.Comment{{Author: "admin", Body: "first"}, {Author: "admin", Body: "second"}},
		}},
	})
	require.NoError(t, err)

	html := buf.String()
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, `<video src="/uploads/4.mp4"`)
	assert.Contains(t, html, `value="4"`)
	assert.Contains(t, html, "first")
	assert.Contains(t, html, "second")
}

func TestApprovalPage_Empty(t *testing.T) {
	tmpl, err := Parse()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, ApprovalPage, map[string]interface{}{"Username": "admin"}))
	assert.Contains(t, buf.String(), "No posts awaiting approval.")
}
