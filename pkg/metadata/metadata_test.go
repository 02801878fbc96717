package metadata

import (
	"errors"
	"strings"
	"testing"
)

func TestSignAndVerify(t *testing.T) {
	signed := Sign("# Report\n\nbody\n", 3)

	ok, err := Verify(signed)
	if err != nil || !ok {
		t.Fatalf("Verify(signed) = %v, %v", ok, err)
	}

	meta, clean := Extract(signed)
	if meta == nil {
		t.Fatal("Extract found no block")
	}

	if meta.Records != 3 || meta.GeneratedAt.IsZero() {
		t.Errorf("meta = %+v", meta)
	}

	if clean != "# Report\n\nbody" {
		t.Errorf("clean = %q", clean)
	}
}

func TestSignReplacesExistingBlock(t *testing.T) {
	twice := Sign(Sign("content", 1), 2)

	if n := strings.Count(twice, TagStart); n != 1 {
		t.Errorf("found %d metadata blocks, want 1", n)
	}

	meta, _ := Extract(twice)
	if meta.Records != 2 {
		t.Errorf("Records = %d, want 2", meta.Records)
	}
}

func TestVerifyErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"no block", "plain text", ErrNoMetadataBlock},
		{"no hash", "text\n\n" + TagStart + "\nRECORDS: 1\n" + TagEnd, ErrNoHashFound},
		{"tampered", strings.Replace(Sign("original", 1), "original", "modified", 1), ErrHashMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := Verify(tt.content)
			if ok || !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify = %v, %v; want false, %v", ok, err, tt.wantErr)
			}
		})
	}
}
