package textutil

import (
	"strings"
	"testing"
)

func TestPlain(t *testing.T) {
	cases := map[string]string{
		"  Basura en el parque  ":               "Basura en el parque",
		"<b>Árbol</b> talado":                   "Árbol talado",
		"<script>alert(1)</script>Contaminación": "Contaminación",
		"Ríos & quebradas":                      "Ríos & quebradas",
		"a < b":                                 "a < b",
	}
	for in, want := range cases {
		if got := Plain(in); got != want {
			t.Errorf("Plain(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPlainDecodesEncodedMarkup(t *testing.T) {
	cases := []struct{ in, want string }{
		{"&lt;img src=x onerror=alert(1)&gt;Basura", "Basura"},
		{"&amp;lt;script&amp;gt;alert(1)&amp;lt;/script&amp;gt;Humo", "Humo"},
		{"Calle 5 &amp; Av. Norte", "Calle 5 & Av. Norte"},
	}
	for _, tc := range cases {
		if got := Plain(tc.in); got != tc.want {
			t.Errorf("Plain(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPlainNeverReturnsMarkup(t *testing.T) {
	inputs := []string{
		"&lt;img src=x onerror=alert(1)&gt;",
		"&#60;b&#62;negrita&#60;/b&#62;",
		"&amp;amp;lt;iframe&amp;amp;gt;",
	}
	for _, in := range inputs {
		if got := Plain(in); strings.ContainsAny(got, "<>") {
			t.Errorf("Plain(%q) = %q, markup survived", in, got)
		}
	}
}

func TestPlainPtr(t *testing.T) {
	if PlainPtr(nil) != nil {
		t.Error("nil input should stay nil")
	}
	blank := "   "
	if PlainPtr(&blank) != nil {
		t.Error("blank input should become nil")
	}
	addr := "Calle 5 <i>#10</i>"
	if got := PlainPtr(&addr); got == nil || *got != "Calle 5 #10" {
		t.Errorf("unexpected address %v", got)
	}
}

func TestMarkdown(t *testing.T) {
	out, err := Markdown("# Reciclaje\n\nSepara **plástico** y vidrio.\n\n<script>alert(1)</script>")
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if !strings.Contains(out, "<h1") || !strings.Contains(out, "<strong>plástico</strong>") {
		t.Errorf("markdown not rendered: %s", out)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("script tag survived sanitizing: %s", out)
	}
}
