package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	cases := map[int]int{0: DefaultLimit, -3: DefaultLimit, 10: 10, 500: MaxLimit}
	for in, want := range cases {
		if got := NormalizeLimit(in); got != want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", in, got, want)
		}
	}
	if got := LimitWithBuffer(10); got != 11 {
		t.Fatalf("expected buffered limit 11, got %d", got)
	}
}

func TestCursorRoundTripWithSeparatorInKey(t *testing.T) {
	in := Cursor{Key: "Pipes | fittings", ID: "3f8a"}
	out, err := ParseCursor(EncodeCursor(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out == nil || *out != in {
		t.Fatalf("expected %+v, got %+v", in, out)
	}
}

func TestParseCursorErrors(t *testing.T) {
	if c, err := ParseCursor("  "); c != nil || err != nil {
		t.Fatalf("expected nil cursor for blank input, got %v %v", c, err)
	}
	if _, err := ParseCursor("not base64!"); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := ParseCursor(EncodeCursor(Cursor{Key: "x"})); err == nil {
		t.Fatal("expected error for empty id")
	}
}
