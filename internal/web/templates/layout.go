package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

const styles = `<style>
body { font-family: system-ui, sans-serif; background: #111; color: #eee; margin: 0 auto; max-width: 56rem; padding: 1rem; }
a { color: #7cc4ff; }
nav a { margin-right: 1rem; }
table { border-collapse: collapse; width: 100%; }
th, td { padding: 0.3rem 0.6rem; border-bottom: 1px solid #333; text-align: left; }
td.num, th.num { text-align: right; }
.empty { color: #888; }
</style>
`

// navLinks are shown on every page in order
var navLinks = []struct {
	Label string
	Href  templ.SafeURL
}{
	{Label: "Leaderboard", Href: templ.URL("/")},
	{Label: "Live", Href: templ.URL("/live")},
}

// Page renders body inside the site layout
func Page(data PageData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return layout(data).Render(templ.WithChildren(ctx, body), w)
	})
}

// layout writes the document shell and renders the children from ctx
// inside <main>
func layout(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := templ.Join(
			templ.Raw("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n"+
				"<meta charset=\"utf-8\">\n"+
				"<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n"),
			text("<title>%s</title>\n", data.FullTitle()),
			templ.Raw(styles),
			templ.Raw("</head>\n<body>\n<nav>"),
		)
		if err := head.Render(ctx, w); err != nil {
			return err
		}
		for _, link := range navLinks {
			if _, err := fmt.Fprintf(w, `<a href="%s">%s</a>`,
				templ.EscapeString(link.Href), templ.EscapeString(link.Label)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "</nav>\n<main>\n"); err != nil {
			return err
		}
		if err := templ.GetChildren(ctx).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</main>\n</body>\n</html>\n")
		return err
	})
}

// Error renders an error page
func Error(data ErrorData) templ.Component {
	return Page(data.PageData, templ.Join(
		text("<h1>%s</h1>\n", data.Title),
		text("<p id=\"error-message\">%s</p>\n", data.Message),
		templ.Raw(`<p><a href="/">Return to the leaderboard</a></p>`+"\n"),
	))
}

// text writes format with value HTML-escaped into its single verb
func text(format, value string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, format, templ.EscapeString(value))
		return err
	})
}
