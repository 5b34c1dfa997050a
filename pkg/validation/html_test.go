package validation

import "testing"

func TestStripHTML(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"<p>Item description</p>", "Item description"},
		{"plain text", "plain text"},
		{"5 > 3 and 2 < 4", "5 > 3 and 2 < 4"},
		{"a<style>p{}</style>b", "ab"},
		{"<!-- note -->kept", "kept"},
		{"<<b>b>nested", "nested"},
		{"Tom &amp; Jerry", "Tom &amp; Jerry"},
	}
	for _, tc := range cases {
		if got := StripHTML(tc.in); got != tc.want {
			t.Fatalf("StripHTML(%q) = %q, want %q", tc.in, got, tc.want)
		}
		if again := StripHTML(tc.want); again != tc.want {
			t.Fatalf("StripHTML not idempotent for %q: %q", tc.want, again)
		}
	}
}
