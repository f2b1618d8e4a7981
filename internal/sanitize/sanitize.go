// Package sanitize reduces untrusted HTML fragments to a fixed whitelist of
// tags and attributes before they are stored or sent to a browser.
package sanitize

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// allowedTags lists every element that survives sanitization. Anything else
// is unwrapped so its text content is kept.
var allowedTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "br": true, "hr": true,
	"strong": true, "b": true, "em": true, "i": true, "u": true,
	"ul": true, "ol": true, "li": true,
	"a":    true,
	"code": true, "pre": true,
	"blockquote": true,
	"table": true, "thead": true, "tbody": true, "tr": true, "th": true, "td": true,
}

var allowedAttrs = map[string]map[string]bool{
	"a":  {"href": true},
	"h1": {"id": true},
	"h2": {"id": true},
	"h3": {"id": true},
	"h4": {"id": true},
	"h5": {"id": true},
	"h6": {"id": true},
}

// languageClass is the only class value kept, on code elements, so fenced
// blocks keep their highlighting hint.
var languageClass = regexp.MustCompile(`^language-[A-Za-z0-9_+-]+$`)

// droppedSubtrees are removed together with their content.
const droppedSubtrees = "script, style, iframe, object, embed, noscript, template, textarea, title, svg, math"

// maxPasses bounds the re-parse loop in HTML.
const maxPasses = 4

// HTML returns a whitelisted copy of the fragment. It never fails: input the
// parser cannot handle is returned fully escaped as plain text.
//
// Unwrapping can leave markup the parser rearranges on the next read, such
// as text directly inside a table, so passes repeat until the output
// reads back unchanged.
func HTML(fragment string) string {
	out := sanitizePass(fragment)
	for i := 1; i < maxPasses; i++ {
		next := sanitizePass(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

func sanitizePass(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return EscapeHTML(fragment)
	}

	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		root.AppendChild(n)
	}

	doc := goquery.NewDocumentFromNode(root)
	doc.Find(droppedSubtrees).Remove()
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		filterAttrs(s)
	})

	clean(root)

	var buf bytes.Buffer
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return EscapeHTML(fragment)
		}
	}
	return strings.TrimSpace(buf.String())
}

// EscapeHTML escapes a plain-text value for embedding in HTML.
func EscapeHTML(text string) string {
	return html.EscapeString(text)
}

// SafeURL reports whether an href may be kept: fragments, root-relative paths
// and absolute http(s) URLs.
func SafeURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "#") || strings.HasPrefix(raw, "/") {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

func filterAttrs(s *goquery.Selection) {
	node := s.Get(0)
	allowed := allowedAttrs[node.Data]

	kept := node.Attr[:0]
	for _, attr := range node.Attr {
		if attr.Namespace != "" {
			continue
		}
		if node.Data == "code" && attr.Key == "class" && languageClass.MatchString(attr.Val) {
			kept = append(kept, attr)
			continue
		}
		if !allowed[attr.Key] {
			continue
		}
		if attr.Key == "href" && !SafeURL(attr.Val) {
			continue
		}
		kept = append(kept, attr)
	}
	node.Attr = kept
}

// clean removes comments and unwraps non-whitelisted elements below n,
// children first so unwrapped content is itself already clean.
func clean(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch c.Type {
		case html.CommentNode, html.DoctypeNode:
			n.RemoveChild(c)
		case html.ElementNode:
			clean(c)
			if !allowedTags[c.Data] || c.Namespace != "" {
				unwrap(c)
			}
		}
		c = next
	}
}

func unwrap(n *html.Node) {
	parent := n.Parent
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
		c = next
	}
	parent.RemoveChild(n)
}
