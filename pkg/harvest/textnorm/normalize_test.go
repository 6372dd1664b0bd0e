package textnorm

import "testing"

func TestNormalizeLineBreaks(t *testing.T) {
	got := Normalize("one\ntwo\rthree\r\nfour")
	want := "one two three four"
	if got != want {
		t.Errorf("Normalize = %q, want %q", got, want)
	}
}

func TestNormalizeMarkdownLinks(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"see [this study](https://example.com/x) for details", "see for details"},
		{"[a](b)[c](d)", ""},
		{"no links here", "no links here"},
		{"bracket only [not a link]", "bracket only [not a link]"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeAmpersandEntity(t *testing.T) {
	got := Normalize("focus &amp; memory")
	if got != "focus & memory" {
		t.Errorf("Normalize = %q, want %q", got, "focus & memory")
	}

	// Only &amp; is decoded; other entities pass through.
	got = Normalize("a &lt; b")
	if got != "a &lt; b" {
		t.Errorf("Normalize = %q, want %q", got, "a &lt; b")
	}
}

func TestNormalizeWhitespaceCollapse(t *testing.T) {
	got := Normalize("  too   many\t\tspaces  ")
	if got != "too many spaces" {
		t.Errorf("Normalize = %q, want %q", got, "too many spaces")
	}
}

func TestNormalizeEmpty(t *testing.T) {
	if got := Normalize(""); got != "" {
		t.Errorf("Normalize(\"\") = %q, want empty", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"line\nbreaks\r\nand   spaces",
		"[link](url) &amp; more &amp; [x](y)",
		"  \t \n ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestStripHTML(t *testing.T) {
	got := StripHTML("<div><p>peptides helped my <em>focus</em></p></div>")
	if got != "peptides helped my focus" {
		t.Errorf("StripHTML = %q", got)
	}
}

func TestStripHTMLPlainText(t *testing.T) {
	if got := StripHTML("already plain"); got != "already plain" {
		t.Errorf("StripHTML = %q", got)
	}
	if got := StripHTML(""); got != "" {
		t.Errorf("StripHTML(\"\") = %q, want empty", got)
	}
}
