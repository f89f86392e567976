package group

import (
	"regexp"
	"strconv"
	"strings"
)

// totalBanner matches the listing's "총 N개 상품" banner. Commas appear once
// a group passes a thousand products.
var totalBanner = regexp.MustCompile(`총\s*([\d,]+)\s*개\s*상품`)

// ParseTotal extracts the product count from the listing banner text.
func ParseTotal(text string) (int, bool) {
	m := totalBanner.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return 0, false
	}
	return n, true
}
