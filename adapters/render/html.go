package render

import (
	"io"
	"strings"

	"gocohort/domain/report"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// HTMLRenderer converts the markdown report into a standalone HTML page
type HTMLRenderer struct {
	md *MarkdownRenderer
}

// NewHTMLRenderer creates an HTML renderer
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{md: NewMarkdownRenderer()}
}

// Format returns "html"
func (r *HTMLRenderer) Format() string { return FormatHTML }

// Render writes rep to w as a complete HTML document
func (r *HTMLRenderer) Render(w io.Writer, rep *report.Report) error {
	var b strings.Builder
	r.md.write(&b, rep)

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: "gocohort report " + string(rep.Manifest.RunID),
		Flags: html.CommonFlags | html.CompletePage,
	})

	_, err := w.Write(markdown.ToHTML([]byte(b.String()), p, renderer))
	return err
}
