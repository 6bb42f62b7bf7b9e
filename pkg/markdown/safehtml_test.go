package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSafeHTMLBoldAndCode(t *testing.T) {
	assert.Equal(t,
		"<strong>hi</strong> and <code>code</code>",
		ToSafeHTML("**hi** and `code`"))
}

func TestToSafeHTMLEscapesRawHTML(t *testing.T) {
	out := ToSafeHTML("<script>alert(1)</script>")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestToSafeHTMLItalic(t *testing.T) {
	assert.Equal(t, "an <em>emphasized</em> word", ToSafeHTML("an *emphasized* word"))
}

func TestToSafeHTMLHeading(t *testing.T) {
	assert.Equal(t, "<h2>Title</h2>", ToSafeHTML("## Title"))
}

func TestToSafeHTMLList(t *testing.T) {
	out := ToSafeHTML("- one\n- two")
	assert.Equal(t, "<ul><li>one</li><li>two</li></ul>", out)
}

func TestToSafeHTMLLink(t *testing.T) {
	out := ToSafeHTML("[site](https://example.com)")
	assert.Contains(t, out, `href="https://example.com"`)
	assert.Contains(t, out, ">site</a>")
}

func TestToSafeHTMLInjectionInsideMarkdown(t *testing.T) {
	out := ToSafeHTML("**<img onerror=x>**")
	assert.NotContains(t, out, "<img")
}

func TestToPlainText(t *testing.T) {
	assert.Equal(t, "hi and code", ToPlainText("**hi** and `code`"))
	assert.Equal(t, "Title some text", ToPlainText("# Title\n\nsome text"))
}
