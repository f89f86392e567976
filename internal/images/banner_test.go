package images

import "testing"

func TestParseImageBanner(t *testing.T) {
	n, ok := ParseImageBanner("총 42개의 이미지")
	if !ok || n != 42 {
		t.Fatalf("got (%d, %v), want (42, true)", n, ok)
	}
	if _, ok := ParseImageBanner("총 3개의 썸네일"); ok {
		t.Fatal("thumbnail banner must not parse as image banner")
	}
	if _, ok := ParseImageBanner(""); ok {
		t.Fatal("empty text must not parse")
	}
}

func TestParseThumbnailBanner(t *testing.T) {
	n, ok := ParseThumbnailBanner("총 5개의 썸네일")
	if !ok || n != 5 {
		t.Fatalf("got (%d, %v), want (5, true)", n, ok)
	}
}

func TestExcessOver(t *testing.T) {
	if got := ExcessOver(42, 30); got != 12 {
		t.Fatalf("got %d, want 12", got)
	}
	if got := ExcessOver(30, 30); got != 0 {
		t.Fatalf("at the cap: got %d, want 0", got)
	}
	if got := ExcessOver(3, 30); got != 0 {
		t.Fatalf("under the cap: got %d, want 0", got)
	}
}
