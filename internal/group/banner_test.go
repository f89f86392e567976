package group

import "testing"

func TestParseTotal(t *testing.T) {
	cases := []struct {
		text string
		want int
		ok   bool
	}{
		{"총 48개 상품", 48, true},
		{"총48개상품", 48, true},
		{"총 1,234개 상품", 1234, true},
		{"상품이 없습니다", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseTotal(c.text)
		if ok != c.ok || got != c.want {
			t.Fatalf("ParseTotal(%q) = (%d, %v), want (%d, %v)", c.text, got, ok, c.want, c.ok)
		}
	}
}
