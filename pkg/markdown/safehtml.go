package markdown

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	codeRe    = regexp.MustCompile("`([^`]+)`")
	boldRe    = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe  = regexp.MustCompile(`\*([^*]+)\*`)
	linkRe    = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	headingRe = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	listRe    = regexp.MustCompile(`^[-*]\s+(.*)$`)

	sanitizer = bluemonday.UGCPolicy()
)

// ToSafeHTML converts a small markdown subset to HTML for transcript
// display. Raw HTML in the input is escaped first, so a literal <script>
// can never come out as an element; the supported markdown rules (code
// spans, bold, italic, headings, links, unordered lists) are applied to the
// escaped text, and the result goes through a sanitizer as a final pass.
func ToSafeHTML(s string) string {
	lines := strings.Split(s, "\n")

	var out []string
	var listItems []string

	flushList := func() {
		if len(listItems) == 0 {
			return
		}
		out = append(out, "<ul><li>"+strings.Join(listItems, "</li><li>")+"</li></ul>")
		listItems = nil
	}

	for _, line := range lines {
		escaped := html.EscapeString(line)

		if m := listRe.FindStringSubmatch(escaped); m != nil {
			listItems = append(listItems, applyInline(m[1]))
			continue
		}
		flushList()

		if m := headingRe.FindStringSubmatch(escaped); m != nil {
			level := len(m[1])
			tag := []string{"h1", "h2", "h3", "h4", "h5", "h6"}[level-1]
			out = append(out, "<"+tag+">"+applyInline(m[2])+"</"+tag+">")
			continue
		}

		out = append(out, applyInline(escaped))
	}
	flushList()

	return sanitizer.Sanitize(strings.Join(out, "<br>"))
}

func applyInline(s string) string {
	s = codeRe.ReplaceAllString(s, "<code>$1</code>")
	s = boldRe.ReplaceAllString(s, "<strong>$1</strong>")
	s = italicRe.ReplaceAllString(s, "<em>$1</em>")
	s = linkRe.ReplaceAllString(s, `<a href="$2">$1</a>`)
	return s
}
