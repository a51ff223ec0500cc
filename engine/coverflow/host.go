package coverflow

import (
	"fmt"
	"sort"
)

// VisibleRows answers which rows of the current model are shown. Windowing and boundaries only ever
// consult it, never the raw model.
type VisibleRows interface {
	ItemCount() int
	IsRowHidden(row int) bool
}

// HostBinding is everything the view needs from the application that owns the item list.
// Every row argument indexes the host's current sorted and filtered model.
type HostBinding interface {
	VisibleRows

	Title(row int) string
	Year(row int) string
	// ImagePath returns the cover image file, empty when the item has none.
	ImagePath(row int) string
	// SynopsisSource returns the folder and base name the back-face text is looked up from.
	SynopsisSource(row int) (folder, name string)

	// OnNavigate asks the host to move its selection by direction (±1). The host answers, now or later,
	// with SetModelAndIndex.
	OnNavigate(direction int)
	// OnScrollAnimationComplete reports the row a scroll committed to, once per scroll.
	OnScrollAnimationComplete(row int)
}

// Jumper is implemented by hosts that can move their selection straight to a row. Home and End use it
// instead of one OnNavigate per row.
type Jumper interface {
	// OnNavigateTo asks the host to select row. The host answers with SetModelAndIndex like OnNavigate.
	OnNavigateTo(row int)
}

// Identified is implemented by models that can name their identity, for example a token that changes
// whenever the filter changes. Models without it are identified by pointer.
type Identified interface {
	ModelIdentity() string
}

// identityOf returns the token the cache generation is tied to.
func identityOf(model HostBinding) string {
	if id, ok := model.(Identified); ok {
		return "id:" + id.ModelIdentity()
	}
	return "ptr:" + sourceKey(model)
}

// sourceKey names the model value itself, so a different host object is told apart from a new
// identity on the same host.
func sourceKey(model HostBinding) string {
	return fmt.Sprintf("%T@%p", model, model)
}

// snapshot is the ordered list of visible rows taken once per frame or input pass.
type snapshot struct {
	rows []int
}

func takeSnapshot(rows VisibleRows) snapshot {
	if rows == nil {
		return snapshot{}
	}
	n := rows.ItemCount()
	s := snapshot{rows: make([]int, 0, n)}
	for row := 0; row < n; row++ {
		if !rows.IsRowHidden(row) {
			s.rows = append(s.rows, row)
		}
	}
	return s
}

// rank returns the position of row among the visible rows, false when it is hidden or out of range.
func (s snapshot) rank(row int) (int, bool) {
	lo := sort.SearchInts(s.rows, row)
	if lo < len(s.rows) && s.rows[lo] == row {
		return lo, true
	}
	return 0, false
}

func (s snapshot) len() int {
	return len(s.rows)
}
