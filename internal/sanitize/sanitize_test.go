package sanitize

import (
	"strings"
	"testing"
)

func TestHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"script removed with content", "<script>alert(1)</script><p>hi</p>", "<p>hi</p>"},
		{"javascript href stripped", `<a href="javascript:alert(1)">x</a>`, "<a>x</a>"},
		{"data href stripped", `<a href="data:text/html,boom">x</a>`, "<a>x</a>"},
		{"schemeless href stripped", `<a href="evil.example/x">x</a>`, "<a>x</a>"},
		{"https href kept", `<a href="https://example.com/a?b=1">x</a>`, `<a href="https://example.com/a?b=1">x</a>`},
		{"fragment href kept", `<a href="#step-1">x</a>`, `<a href="#step-1">x</a>`},
		{"root relative href kept", `<a href="/recipes/cod">x</a>`, `<a href="/recipes/cod">x</a>`},
		{"heading id kept, other attrs dropped", `<h2 id="prep" class="big" onclick="x()">Prep</h2>`, `<h2 id="prep">Prep</h2>`},
		{"id dropped outside headings", `<p id="a" style="color:red">t</p>`, "<p>t</p>"},
		{"unknown tags unwrapped", "<div><span>keep</span> me</div>", "keep me"},
		{"comments removed", "<p>a<!-- secret -->b</p>", "<p>ab</p>"},
		{"iframe removed", `<iframe src="https://x"></iframe><em>ok</em>`, "<em>ok</em>"},
		{"malformed markup recovered", "<p><strong>open", "<p><strong>open</strong></p>"},
		{"text is escaped", "1 < 2 & 3", "1 &lt; 2 &amp; 3"},
		{"empty input", "   ", ""},
		{"void tags", "a<br>b<hr>", "a<br/>b<hr/>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTML(tt.in); got != tt.want {
				t.Errorf("HTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHTMLIdempotent(t *testing.T) {
	inputs := []string{
		"<script>alert(1)</script><p>hi</p>",
		`<a href="javascript:alert(1)">x</a>`,
		"<div><p>one</p><p>two <b>bold</b></p></div>",
		"<table><tr><td>a</td><td>b</td></tr></table>",
		"<ul><li>one<li>two</ul>",
		"<p>it's \"quoted\" &amp; <em>done</em></p>",
		"<pre><code>x := 1\n\ny := 2</code></pre>",
		"plain text with <unknown>tags</unknown>",
		"<h1 id=\"t\" onmouseover=\"x\">T</h1><img src=x onerror=alert(1)>",
		"<table><caption>c</caption><tr><td>x</td></tr></table>",
		"<table><colgroup><col></colgroup><tr><td>x</td></tr></table>",
		"<table><tr><td>a</td></tr><tfoot><tr><td>total</td></tr></tfoot></table>",
	}

	for _, in := range inputs {
		once := HTML(in)
		twice := HTML(once)
		if once != twice {
			t.Errorf("not idempotent for %q:\n once: %q\ntwice: %q", in, once, twice)
		}
	}
}

func TestHTMLTableCaption(t *testing.T) {
	got := HTML("<table><caption>c</caption><tr><td>x</td></tr></table>")
	want := "c<table><tbody><tr><td>x</td></tr></tbody></table>"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func FuzzHTML(f *testing.F) {
	for _, seed := range []string{
		"<script>alert(1)</script><p>hi</p>",
		"<table><caption>c</caption><tr><td>x</td></tr></table>",
		"<ul><li>one<li>two</ul>",
		"<p><a href=\"/x\">a<a href=\"#y\">b</a></a></p>",
		"plain & <unknown>text</unknown>",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, in string) {
		once := HTML(in)
		if twice := HTML(once); twice != once {
			t.Errorf("not idempotent for %q:\n once: %q\ntwice: %q", in, once, twice)
		}
	})
}

func TestHTMLNoDangerousOutput(t *testing.T) {
	in := `<img src=x onerror="alert(1)"><svg onload="alert(1)"><a href=" JaVaScRiPt:alert(1)">x</a><style>p{}</style>`
	got := HTML(in)
	for _, bad := range []string{"<img", "onerror", "<svg", "onload", "javascript", "<style"} {
		if strings.Contains(strings.ToLower(got), strings.ToLower(bad)) {
			t.Errorf("output %q still contains %q", got, bad)
		}
	}
}

func TestEscapeHTML(t *testing.T) {
	got := EscapeHTML(`<b>"Tom" & 'Jerry'</b>`)
	want := "&lt;b&gt;&#34;Tom&#34; &amp; &#39;Jerry&#39;&lt;/b&gt;"
	if got != want {
		t.Errorf("EscapeHTML = %q, want %q", got, want)
	}
}

func TestSafeURL(t *testing.T) {
	tests := map[string]bool{
		"#a":                    true,
		"/x":                    true,
		"http://a.b":            true,
		"HTTPS://a.b":           true,
		"javascript:alert(1)":   false,
		"  javascript:alert(1)": false,
		"mailto:a@b.c":          false,
		"data:text/plain,x":     false,
		"www.example.com":       false,
		"":                      false,
	}
	for in, want := range tests {
		if got := SafeURL(in); got != want {
			t.Errorf("SafeURL(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestHTMLCodeLanguageClass(t *testing.T) {
	in := `<pre><code class="language-go">x</code></pre><code class="evil x">y</code>`
	want := `<pre><code class="language-go">x</code></pre><code>y</code>`
	if got := HTML(in); got != want {
		t.Errorf("HTML = %q, want %q", got, want)
	}
}
