package editor

import "testing"

func TestStripCloneTail(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"여름 원피스 (1)", "여름 원피스"},
		{"여름 원피스 (12)", "여름 원피스"},
		{"여름 원피스(3)", "여름 원피스"},
		{"여름 원피스", "여름 원피스"},
		{"세트 (2개입)", "세트 (2개입)"},
	}
	for _, c := range cases {
		if got := StripCloneTail(c.in); got != c.want {
			t.Fatalf("StripCloneTail(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestHasCloneTail(t *testing.T) {
	if !HasCloneTail("상품명 (1)") {
		t.Fatal("counter tail not detected")
	}
	if HasCloneTail("상품명") {
		t.Fatal("plain title misdetected")
	}
	if HasCloneTail("상품명 (1) 추가") {
		t.Fatal("mid-title parenthetical misdetected")
	}
}

func TestPrepareForSuffix(t *testing.T) {
	// A previous rotation letter is stripped before the new one goes on.
	if got := PrepareForSuffix("원피스 A", "B"); got != "원피스" {
		t.Fatalf("got %q, want %q", got, "원피스")
	}
	// The same letter is left alone so re-application is idempotent.
	if got := PrepareForSuffix("원피스 B", "B"); got != "원피스 B" {
		t.Fatalf("got %q, want %q", got, "원피스 B")
	}
	// Lowercase and digits are not rotation letters.
	if got := PrepareForSuffix("원피스 a", "B"); got != "원피스 a" {
		t.Fatalf("got %q, want %q", got, "원피스 a")
	}
	if got := PrepareForSuffix("", "B"); got != "" {
		t.Fatalf("empty title: got %q", got)
	}
}

func TestAccountSuffixedTitle(t *testing.T) {
	// A clone taken before the account suffix landed carries only the
	// platform counter; stripping it leaves the bare source title.
	if got := AccountSuffixedTitle("신발 정품 (2)", "B3", true); got != "신발 정품 B3" {
		t.Fatalf("got %q, want %q", got, "신발 정품 B3")
	}
	// A suffix already saved into the title survives the tail strip, so
	// clones must be taken from the unsuffixed title.
	if got := AccountSuffixedTitle("신발 정품 A3 (2)", "B3", true); got != "신발 정품 A3 B3" {
		t.Fatalf("got %q, want %q", got, "신발 정품 A3 B3")
	}
	// Without tail stripping a legitimate parenthetical stays intact.
	if got := AccountSuffixedTitle("세트 (2)", "A3", false); got != "세트 (2) A3" {
		t.Fatalf("got %q, want %q", got, "세트 (2) A3")
	}
	if got := AccountSuffixedTitle("원피스  ", "C3", false); got != "원피스 C3" {
		t.Fatalf("trailing spaces: got %q", got)
	}
}

func TestComposeSuffixed(t *testing.T) {
	if got := ComposeSuffixed("원피스", "A", false); got != "원피스A" {
		t.Fatalf("got %q", got)
	}
	if got := ComposeSuffixed("원피스", "A", true); got != "원피스 A" {
		t.Fatalf("got %q", got)
	}
}
