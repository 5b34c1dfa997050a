package enums

import "testing"

func TestParseRecordKind(t *testing.T) {
	for _, kind := range RecordKinds() {
		parsed, err := ParseRecordKind(kind.String())
		if err != nil {
			t.Fatalf("parse %q: %v", kind, err)
		}
		if parsed != kind || !parsed.IsValid() {
			t.Fatalf("expected %q to round trip", kind)
		}
	}

	if _, err := ParseRecordKind("widget"); err == nil {
		t.Fatal("expected unknown kind to fail")
	}
	if RecordKind("boqitem").IsValid() {
		t.Fatal("expected kind matching to be case sensitive")
	}
}
