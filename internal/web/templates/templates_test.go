package templates_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/blockfall/internal/model"
	"github.com/mcoot/blockfall/internal/web/templates"
)

func renderDoc(t *testing.T, c templ.Component) (*goquery.Document, string) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	html := buf.String()
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc, html
}

// Layout tests

func TestPageWrapsBodyInLayout(t *testing.T) {
	doc, html := renderDoc(t, templates.Page(
		templates.PageData{Title: "Rules"},
		templ.Raw(`<p id="body">hello</p>`),
	))

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Equal(t, "Rules | Blockfall", doc.Find("title").Text())
	assert.Equal(t, "hello", doc.Find("main #body").Text())

	var hrefs []string
	doc.Find("nav a").Each(func(_ int, a *goquery.Selection) {
		hrefs = append(hrefs, a.AttrOr("href", ""))
	})
	assert.Equal(t, []string{"/", "/live"}, hrefs)
}

func TestPageWithoutTitleUsesAppName(t *testing.T) {
	doc, _ := renderDoc(t, templates.Page(templates.PageData{}, templ.NopComponent))

	assert.Equal(t, "Blockfall", doc.Find("title").Text())
	assert.Empty(t, doc.Find("main").Children().Nodes)
}

// Error page tests

func TestErrorPageEscapesMessage(t *testing.T) {
	doc, html := renderDoc(t, templates.Error(templates.ErrorData{
		PageData: templates.PageData{Title: "Bad <input>"},
		Message:  `<script>alert("x")</script>`,
	}))

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Equal(t, `<script>alert("x")</script>`, doc.Find("#error-message").Text())
	assert.Equal(t, "Bad <input>", doc.Find("h1").Text())
	assert.Equal(t, "Bad <input> | Blockfall", doc.Find("title").Text())
	assert.Equal(t, "/", doc.Find("main a").AttrOr("href", ""))
}

// Page body tests

func TestScorePageRendersInsideLayout(t *testing.T) {
	doc, _ := renderDoc(t, templates.Score(templates.ScoreData{
		PageData: templates.PageData{Title: "Game abc"},
		Score: &model.ScoreRecord{
			ID:           "abc",
			PlayerName:   "alice",
			Score:        40,
			LinesCleared: 4,
			EndReason:    model.EndReasonBlocked,
		},
	}))

	assert.Equal(t, "Game abc | Blockfall", doc.Find("title").Text())
	assert.Equal(t, "40", doc.Find("main #score .points").Text())
	assert.Equal(t, "alice", doc.Find("main #score .player").Text())
}
