package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/JKevinXu/NewsAgent/internal/domain"
)

// sourceStyle drives per-source presentation. Adding a source means adding
// one row here, not another branch in the templates.
type sourceStyle struct {
	Label string
	Icon  string
	Color string
}

var sourceStyles = map[domain.Source]sourceStyle{
	domain.SourceHackerNews:     {Label: "Hacker News", Icon: "📰", Color: "#ff6600"},
	domain.SourceGitHubTrending: {Label: "GitHub Trending", Icon: "⭐", Color: "#24292e"},
}

var defaultStyle = sourceStyle{Label: "Other", Icon: "🔗", Color: "#555555"}

func styleFor(source domain.Source) sourceStyle {
	if s, ok := sourceStyles[source]; ok {
		return s
	}
	return defaultStyle
}

type itemView struct {
	Title       string
	URL         string
	Score       int
	Secondary   int
	Author      string
	SummaryHTML template.HTML
	SummaryText string
	AudioURL    string
}

type groupView struct {
	Label string
	Icon  string
	Color string
	Items []itemView
}

type digestView struct {
	Date        string
	Groups      []groupView
	CombinedURL string
	TotalItems  int
}

var htmlTemplate = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, Helvetica, Arial, sans-serif; max-width: 680px; margin: 0 auto; color: #1a1a1a;">
  <h1 style="font-size: 22px;">Daily Tech Digest · {{.Date}}</h1>
  {{- if .CombinedURL}}
  <p style="background: #eef6ff; padding: 12px 16px; border-radius: 8px;">
    🎧 <strong><a href="{{.CombinedURL}}">Listen to today's digest</a></strong> — all {{.TotalItems}} stories narrated in one track.
  </p>
  {{- end}}
  {{- range .Groups}}
  <h2 style="font-size: 18px; color: {{.Color}}; border-bottom: 2px solid {{.Color}}; padding-bottom: 4px;">{{.Icon}} {{.Label}}</h2>
    {{- range .Items}}
  <div style="margin: 0 0 18px 0;">
    <p style="margin: 0 0 4px 0;"><strong><a href="{{.URL}}">{{.Title}}</a></strong></p>
    <p style="margin: 0 0 4px 0; font-size: 13px; color: #777;">{{.Score}} points · {{.Secondary}} comments · by {{.Author}}</p>
    {{- if .SummaryHTML}}
    <div style="font-size: 14px;">{{.SummaryHTML}}</div>
    {{- end}}
    {{- if .AudioURL}}
    <p style="margin: 4px 0 0 0; font-size: 13px;">🔊 <a href="{{.AudioURL}}">Audio summary</a></p>
    {{- end}}
  </div>
    {{- end}}
  {{- end}}
  <p style="font-size: 12px; color: #999;">You are receiving this because you subscribed to the NewsAgent daily digest.</p>
</body>
</html>
`))

// Digest renders HTML and plain-text email bodies for the finalized item
// list. Both bodies are always produced; the combined-track section is
// conditional on the URL being present.
func Digest(date string, items []domain.Item, combinedURL string) (string, string, error) {
	view := buildView(date, items, combinedURL)

	var htmlBody strings.Builder
	if err := htmlTemplate.Execute(&htmlBody, view); err != nil {
		return "", "", fmt.Errorf("execute digest template: %w", err)
	}

	return htmlBody.String(), textBody(view), nil
}

// buildView groups items by source in order of first appearance.
func buildView(date string, items []domain.Item, combinedURL string) digestView {
	view := digestView{Date: date, CombinedURL: combinedURL, TotalItems: len(items)}

	groupIndex := map[domain.Source]int{}
	for _, item := range items {
		idx, ok := groupIndex[item.Source]
		if !ok {
			style := styleFor(item.Source)
			view.Groups = append(view.Groups, groupView{
				Label: style.Label,
				Icon:  style.Icon,
				Color: style.Color,
			})
			idx = len(view.Groups) - 1
			groupIndex[item.Source] = idx
		}

		iv := itemView{
			Title:     item.Title,
			URL:       item.URL,
			Score:     item.Score,
			Secondary: item.SecondaryCount,
			Author:    item.Author,
			AudioURL:  item.AudioURL,
		}
		if item.HasSummary() {
			iv.SummaryHTML = markdownToHTML(item.Summary)
			iv.SummaryText = markdownToText(item.Summary)
		}
		view.Groups[idx].Items = append(view.Groups[idx].Items, iv)
	}

	return view
}

func textBody(view digestView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "DAILY TECH DIGEST - %s\n\n", view.Date)

	if view.CombinedURL != "" {
		fmt.Fprintf(&b, "Listen to today's digest: %s\n\n", view.CombinedURL)
	}

	for _, group := range view.Groups {
		fmt.Fprintf(&b, "== %s ==\n\n", group.Label)
		for _, item := range group.Items {
			fmt.Fprintf(&b, "- %s\n  %s\n  %d points, %d comments, by %s\n",
				item.Title, item.URL, item.Score, item.Secondary, item.Author)
			if item.SummaryText != "" {
				fmt.Fprintf(&b, "  %s\n", item.SummaryText)
			}
			if item.AudioURL != "" {
				fmt.Fprintf(&b, "  Audio: %s\n", item.AudioURL)
			}
			b.WriteByte('\n')
		}
	}

	return b.String()
}
