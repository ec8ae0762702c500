// Package pages holds the server-rendered HTML pages. Academy's API is JSON;
// the only page it renders itself is the error page shown to browsers that
// land on a non-API path.
package pages

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
)

// ErrorPage renders a minimal standalone error document for the given HTTP
// status code. message is escaped.
func ErrorPage(code int, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := strconv.Itoa(code) + " " + http.StatusText(code)

		_, err := io.WriteString(w, `<!doctype html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>`+templ.EscapeString(title)+` | Academy</title>`+
			`<style>body{font-family:system-ui,sans-serif;max-width:36rem;margin:15vh auto;padding:0 1rem;color:#1f2937}`+
			`h1{font-size:1.5rem}a{color:#2563eb}</style></head><body>`+
			`<h1>`+templ.EscapeString(title)+`</h1>`+
			`<p>`+templ.EscapeString(message)+`</p>`+
			`<p><a href="/">Back to Academy</a></p>`+
			`</body></html>`)
		return err
	})
}
