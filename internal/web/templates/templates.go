// Package templates renders the leaderboard site's pages. The layout and
// the error page are templ components; data-heavy page bodies are
// html/template files wrapped as templ children of the layout.
package templates

import (
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/mcoot/blockfall/internal/model"
)

// AppName is shown in every page title
const AppName = "Blockfall"

//go:embed html/*.html
var pagesFS embed.FS

var funcs = template.FuncMap{
	"datetime": func(t time.Time) string {
		return t.UTC().Format("2006-01-02 15:04")
	},
	"player": func(r *model.ScoreRecord) string {
		if r.IsBot() {
			return r.PlayerName + " (" + r.BotStrategy + " bot)"
		}
		return r.PlayerName
	},
	"inc": func(i int) int {
		return i + 1
	},
}

var (
	leaderboardPage = parsePage("leaderboard.html")
	scorePage       = parsePage("score.html")
	livePage        = parsePage("live.html")
)

// parsePage returns the "content" template defined by the named file
func parsePage(name string) *template.Template {
	tmpl := template.Must(template.New(name).Funcs(funcs).ParseFS(pagesFS, "html/"+name))
	return tmpl.Lookup("content")
}

// PageData is the data every page's layout needs
type PageData struct {
	Title string
}

// FullTitle returns the page title with the app name appended
func (p PageData) FullTitle() string {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return AppName
	}
	return title + " | " + AppName
}

// LeaderboardData is the data for the leaderboard page
type LeaderboardData struct {
	PageData
	Scores []*model.ScoreRecord
	Total  int
	Limit  int
}

// ScoreData is the data for a single score's page
type ScoreData struct {
	PageData
	Score *model.ScoreRecord
}

// LiveData is the data for the spectator page
type LiveData struct {
	PageData
	StreamURL string
	Palette   []string
}

// ErrorData is the data for error pages
type ErrorData struct {
	PageData
	Message string
}

// Leaderboard renders the top scores
func Leaderboard(data LeaderboardData) templ.Component {
	return Page(data.PageData, templ.FromGoHTML(leaderboardPage, data))
}

// Score renders a single recorded game
func Score(data ScoreData) templ.Component {
	return Page(data.PageData, templ.FromGoHTML(scorePage, data))
}

// Live renders the spectator page for the locally streamed game
func Live(data LiveData) templ.Component {
	return Page(data.PageData, templ.FromGoHTML(livePage, data))
}
