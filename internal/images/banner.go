package images

import (
	"regexp"
	"strconv"
)

var (
	imageBanner     = regexp.MustCompile(`총\s*(\d+)\s*개의\s*이미지`)
	thumbnailBanner = regexp.MustCompile(`총\s*(\d+)\s*개의\s*썸네일`)
)

// ParseImageBanner extracts N from the drawer's "총 N개의 이미지" banner.
func ParseImageBanner(text string) (int, bool) {
	return parseBanner(imageBanner, text)
}

// ParseThumbnailBanner extracts N from the "총 N개의 썸네일" banner.
func ParseThumbnailBanner(text string) (int, bool) {
	return parseBanner(thumbnailBanner, text)
}

func parseBanner(re *regexp.Regexp, text string) (int, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ExcessOver returns how many images must be deleted to respect limit.
func ExcessOver(count, limit int) int {
	if count <= limit {
		return 0
	}
	return count - limit
}
