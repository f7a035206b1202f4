package parser

import (
	"strings"
	"testing"
)

func TestStripHiddenBlocks(t *testing.T) {
	text := "keep <auth>members</auth> and <priv>owners</priv> and <info>meta</info> end"
	got := StripHiddenBlocks(text)
	for _, hidden := range []string{"members", "owners", "meta"} {
		if strings.Contains(got, hidden) {
			t.Fatalf("hidden content %q leaked: %q", hidden, got)
		}
	}
	if !strings.Contains(got, "keep") || !strings.Contains(got, "end") {
		t.Fatalf("visible content lost: %q", got)
	}
}

func TestAuthBlockVisibility(t *testing.T) {
	text := "public <auth>members only</auth> tail"

	// 未登录者看不到 auth 块
	got, err := Parse(KindWiki, text, Context{})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if strings.Contains(got, "members only") {
		t.Fatalf("auth content shown to anonymous: %q", got)
	}

	got, err = Parse(KindWiki, text, Context{UserID: 5, Authenticated: true})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !strings.Contains(got, "members only") {
		t.Fatalf("auth content hidden from authenticated viewer: %q", got)
	}
	if strings.Contains(got, "<auth>") {
		t.Fatalf("auth tags left in output: %q", got)
	}
}

func TestPrivBlockVisibility(t *testing.T) {
	text := "public <priv>owner notes</priv> tail"
	creator := Context{UserID: 7, Authenticated: true, CreatedBy: 7}
	stranger := Context{UserID: 5, Authenticated: true, CreatedBy: 7}
	admin := Context{UserID: 1, IsAdmin: true, Authenticated: true, CreatedBy: 7}

	for _, tc := range []struct {
		name string
		pctx Context
		want bool
	}{
		{"creator", creator, true},
		{"admin", admin, true},
		{"stranger", stranger, false},
	} {
		got, err := Parse(KindWiki, text, tc.pctx)
		if err != nil {
			t.Fatalf("%s: parse failed: %v", tc.name, err)
		}
		if strings.Contains(got, "owner notes") != tc.want {
			t.Fatalf("%s: priv visibility want %v got %q", tc.name, tc.want, got)
		}
	}
}

func TestKindForFormat(t *testing.T) {
	cases := map[string]Kind{
		"wiki":     KindWiki,
		"htmlw":    KindWikiHTML,
		"codew":    KindWikiCode,
		"html":     KindHTML,
		"code":     KindCode,
		"markdown": KindMarkdown,
		"text":     KindText,
		"unknown":  KindText,
		"  WIKI  ": KindWiki,
	}
	for constant, want := range cases {
		if got := KindForFormat(constant); got != want {
			t.Fatalf("KindForFormat(%q) want %v got %v", constant, want, got)
		}
	}
}

func TestParseWikiMarkup(t *testing.T) {
	text := "== Section ==\n**bold** //italic// [[page|label]] [[bare]]"
	got, err := Parse(KindWiki, text, Context{})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	for _, want := range []string{
		"<h2>Section</h2>",
		"<strong>bold</strong>",
		"<em>italic</em>",
		`<a href="page">label</a>`,
		`<a href="bare">bare</a>`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in %q", want, got)
		}
	}
}

func TestParseWikiEscapesHTML(t *testing.T) {
	got, err := Parse(KindWiki, `<script>alert(1)</script>`, Context{})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if strings.Contains(got, "<script>") {
		t.Fatalf("raw html survived wiki format: %q", got)
	}

	// htmlw 格式保留内嵌 HTML
	got, err = Parse(KindWikiHTML, `<b>keep</b>`, Context{})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !strings.Contains(got, "<b>keep</b>") {
		t.Fatalf("embedded html stripped in htmlw format: %q", got)
	}
}

func TestParseCodeEscapes(t *testing.T) {
	got, err := Parse(KindCode, `x := a < b`, Context{})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !strings.HasPrefix(got, "<pre><code>") || !strings.Contains(got, "&lt;") {
		t.Fatalf("code output malformed: %q", got)
	}
}

func TestParseMarkdown(t *testing.T) {
	got, err := Parse(KindMarkdown, "# Title\n\nsome *emphasis*", Context{})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !strings.Contains(got, "<h1>Title</h1>") || !strings.Contains(got, "<em>emphasis</em>") {
		t.Fatalf("markdown output malformed: %q", got)
	}
}

func TestParseTextBreaksLines(t *testing.T) {
	got, err := Parse(KindText, "line one\nline two", Context{})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !strings.Contains(got, "line one<br>") {
		t.Fatalf("text output missing line breaks: %q", got)
	}
}
