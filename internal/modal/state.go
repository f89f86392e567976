package modal

import (
	"regexp"
	"strconv"
	"strings"
)

// State is the modal lifecycle state tracked by the supervisor.
type State string

const (
	// StateClosed means no modal generation is live
	StateClosed State = "closed"
	// StateOpening means an open-click was sent and the wait is pending
	StateOpening State = "opening"
	// StateOpen means the modal is confirmed present
	StateOpen State = "open"
	// StateClosing means a close was requested and the wait is pending
	StateClosing State = "closing"
)

// trailingNumber matches a title's trailing conflict counter.
var trailingNumber = regexp.MustCompile(`\d+$`)

// BumpTitle strips any previous trailing conflict counter from title and
// appends n. Used by the duplicate-name guard so retries replace the
// counter instead of stacking digits.
func BumpTitle(title string, n int) string {
	base := strings.TrimRight(trailingNumber.ReplaceAllString(strings.TrimRight(title, " "), ""), " ")
	return base + strconv.Itoa(n)
}
