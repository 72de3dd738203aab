package mailer

import (
	"strings"
	"testing"
)

func TestRenderHTML(t *testing.T) {
	md := "# Morning Digest\n\nSome **bold** news.\n\n- item one\n- item two"

	html, err := RenderHTML(md)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"<h1", "Morning Digest",
		"<strong>bold</strong>",
		"<li>item one</li>",
		`<div class="container">`,
		"Sent via CreatorPulse",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered HTML missing %q", want)
		}
	}
}

func TestRenderHTMLTables(t *testing.T) {
	md := "| a | b |\n|---|---|\n| 1 | 2 |"

	html, err := RenderHTML(md)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html, "<table>") {
		t.Error("GFM tables not rendered")
	}
}
