package logfields

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"RenderID", KeyRenderID, "r1", RenderID("r1")},
		{"Source", KeySource, "jdk8", Source("jdk8")},
		{"SourceKind", KeySourceKind, "old", SourceKind("old")},
		{"Reference", KeyReference, "String", Reference("String")},
		{"Outcome", KeyOutcome, "resolved", Outcome("resolved")},
		{"URL", KeyURL, "https://example", URL("https://example")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"File", KeyFile, "README.md", File("README.md")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %s", tc.name, tc.attrVal, got)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if a := Count(3); a.Key != KeyCount || a.Value.Int64() != 3 {
		t.Fatalf("unexpected count attr: %v", a)
	}
	if a := Duration(1500 * time.Microsecond); a.Key != KeyDurationMS || a.Value.Float64() != 1.5 {
		t.Fatalf("unexpected duration attr: %v", a)
	}
}

func TestErrorHelper(t *testing.T) {
	if a := Error(nil); a.Value.String() != "" {
		t.Fatalf("nil error should produce empty value, got %q", a.Value.String())
	}
	if a := Error(errors.New("boom")); a.Key != KeyError || a.Value.String() != "boom" {
		t.Fatalf("unexpected error attr: %v", a)
	}
}
