package editor

import (
	"log"
	"time"

	"github.com/percenty/edit-agent/internal/flow"
	"github.com/percenty/edit-agent/internal/selector"
)

// Outcome summarizes one product's run for reporting.
type Outcome struct {
	Title         string
	Destination   string
	Deleted       bool
	NameConflicts int
	Session       Session
}

// SingleEditor runs the single-original flow: one product per iteration is
// pulled from the staging group, edited in place, suffixed, and routed by
// its content total.
type SingleEditor struct {
	*Editor
	cursor *SuffixCursor
}

// NewSingleEditor wires the single-original flow over a shared editor core.
func NewSingleEditor(e *Editor, cursor *SuffixCursor) *SingleEditor {
	return &SingleEditor{Editor: e, cursor: cursor}
}

// RunOne edits the first product of the staging listing end to end.
// The caller is responsible for having the staging group selected and
// non-empty.
func (s *SingleEditor) RunOne() (Outcome, error) {
	var out Outcome

	if err := s.openFirstProduct(); err != nil {
		return out, err
	}

	session := &Session{}

	// Memo first: the source memo seeds both the detail HTML and the
	// info notice, and the "-S" marker flags the product as processed.
	if s.openMemoModal() {
		memo, err := s.readMemo()
		if err != nil {
			log.Printf("[Single] %v", err)
		}
		session.SourceMemo = memo
		if !s.writeMemo(memoMarker(memo)) {
			log.Printf("[Single] Memo save failed, continuing")
		}
	} else {
		log.Printf("[Single] Memo modal unavailable, continuing without memo")
	}

	if s.switchTab(selector.TabDetail) {
		if session.SourceMemo != "" && !s.injectHTMLSource(session.SourceMemo) {
			log.Printf("[Single] HTML source injection failed, continuing")
		}

		if s.imgs.OpenDrawer() {
			count, err := s.imgs.Count()
			if err != nil {
				log.Printf("[Single] %v", err)
			}
			if err == nil && count == 0 {
				// No detail images means an unsellable listing. Delete it
				// instead of routing.
				s.imgs.CloseDrawer()
				out.Session = *session
				if !s.deleteProduct() {
					return out, flow.New(flow.CategoryActionFailed, "zero-image product delete failed", nil)
				}
				out.Deleted = true
				log.Printf("[Single] Deleted zero-image product")
				return out, nil
			}
			capped, err := s.imgs.Cap(s.imageCap)
			if err != nil {
				log.Printf("[Single] Image cap: %v", err)
				capped = count
			}
			session.DetailImageCount = capped
			s.imgs.CloseDrawer()
		} else {
			log.Printf("[Single] Image drawer never opened, counts unknown")
		}
	}

	if s.switchTab(selector.TabOption) {
		n, err := s.countOptions()
		if err != nil {
			log.Printf("[Single] %v", err)
		}
		session.OptionCount = n
	}

	if s.switchTab(selector.TabUpload) {
		if !s.updateInfoNotice(session.SourceMemo) {
			log.Printf("[Single] Info-notice update failed, continuing")
		}
	}

	if s.switchTab(selector.TabBasic) {
		s.deleteWarningWords()
		letter := s.cursor.Next()
		if !s.names.ApplySuffix(letter, false) {
			return out, flow.New(flow.CategoryActionFailed, "title suffix failed", nil)
		}
		title, err := s.names.CurrentTitle()
		if err == nil {
			out.Title = title
		}
	} else {
		return out, flow.New(flow.CategoryActionFailed, "basic tab never activated", nil)
	}

	closeResult, err := s.closeModal()
	out.NameConflicts = closeResult.NameConflicts
	if err != nil {
		return out, err
	}
	if closeResult.NameConflicts > 0 && !closeResult.ConflictResolved {
		return out, flow.New(flow.CategoryNameConflict, "duplicate title never accepted", nil)
	}

	out.Session = *session
	dest := s.groupNames.StagingNew
	if DestinationFor(session.TotalContent(), s.contentMax) == DestNeverDelete {
		dest = s.groupNames.NeverDelete
	}
	out.Destination = dest

	time.Sleep(time.Second)
	if !s.groups.MoveProductToGroup(dest, 0) {
		return out, flow.New(flow.CategoryCountMismatch, "routing move unverified", nil)
	}
	log.Printf("[Single] Product routed to %q (content total %d)", dest, session.TotalContent())
	return out, nil
}
