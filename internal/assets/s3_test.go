package assets

import (
	"strings"
	"testing"
)

func TestObjectNameStripsSlashes(t *testing.T) {
	got := ObjectName("cabins/photo 001.jpg")
	if strings.Contains(got, "/") {
		t.Errorf("object name must be flat, got %q", got)
	}
	if !strings.HasSuffix(got, "photo 001.jpg") {
		t.Errorf("original filename should survive at the tail: %q", got)
	}
}

func TestObjectNameIsUnique(t *testing.T) {
	a := ObjectName("cabin.jpg")
	b := ObjectName("cabin.jpg")
	if a == b {
		t.Errorf("two uploads of the same filename must not collide: %q", a)
	}
}
