package modal

import "testing"

func TestBumpTitle(t *testing.T) {
	cases := []struct {
		title string
		n     int
		want  string
	}{
		{"원피스", 1, "원피스1"},
		{"원피스1", 2, "원피스2"},
		{"원피스 3", 4, "원피스4"},
		{"원피스12", 13, "원피스13"},
		{"", 1, "1"},
	}
	for _, c := range cases {
		if got := BumpTitle(c.title, c.n); got != c.want {
			t.Fatalf("BumpTitle(%q, %d) = %q, want %q", c.title, c.n, got, c.want)
		}
	}
}

func TestBumpTitleDoesNotStack(t *testing.T) {
	// Five consecutive bumps must replace, not append, the counter.
	title := "중복상품"
	for n := 1; n <= 5; n++ {
		title = BumpTitle(title, n)
	}
	if title != "중복상품5" {
		t.Fatalf("got %q, want %q", title, "중복상품5")
	}
}
