package validation

import (
	"strings"

	"golang.org/x/net/html"
)

// StripHTML removes markup from s, keeping only text content. Script and
// style bodies are dropped. The result contains no tags even when removing
// one tag exposes another.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return s
	}
	for {
		next := stripOnce(s)
		if next == s {
			return s
		}
		s = next
	}
}

func stripOnce(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Raw())
			}
		case html.StartTagToken:
			if isRawContainer(z) {
				skip++
			}
		case html.EndTagToken:
			if skip > 0 && isRawContainer(z) {
				skip--
			}
		}
	}
}

func isRawContainer(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	switch string(name) {
	case "script", "style":
		return true
	}
	return false
}
