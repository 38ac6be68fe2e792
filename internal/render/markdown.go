package render

import (
	"html"
	"html/template"
	"regexp"
	"strings"
)

// The digest only ever needs the markdown subset the summarizer emits:
// headings, bold, italic, and line breaks.
var (
	headingExpr = regexp.MustCompile(`(?m)^#{1,6}\s*(.+)$`)
	boldExpr    = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicExpr  = regexp.MustCompile(`\*([^*]+)\*`)
	markerExpr  = regexp.MustCompile(`(?m)^#{1,6}\s*`)
)

// markdownToHTML escapes the input first, then rewrites the supported
// markers, so summary text can never inject markup into the email body.
func markdownToHTML(md string) template.HTML {
	out := html.EscapeString(md)
	out = headingExpr.ReplaceAllString(out, "<h4>$1</h4>")
	out = boldExpr.ReplaceAllString(out, "<strong>$1</strong>")
	out = italicExpr.ReplaceAllString(out, "<em>$1</em>")
	out = strings.ReplaceAll(out, "\n", "<br>\n")
	return template.HTML(out)
}

// markdownToText strips the supported markers for the plain-text body.
func markdownToText(md string) string {
	out := markerExpr.ReplaceAllString(md, "")
	out = boldExpr.ReplaceAllString(out, "$1")
	out = italicExpr.ReplaceAllString(out, "$1")
	return strings.TrimSpace(out)
}
