package library

import (
	"strings"

	"github.com/Carmen-Shannon/coverflow/engine/coverflow"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Library is a filtered, sorted movie list that hosts a cover-flow view.
// It is not safe for concurrent use; call it from the thread that renders the view.
type Library interface {
	coverflow.HostBinding
	coverflow.Identified

	// Movie returns the movie at row.
	Movie(row int) Movie

	// Bind attaches the view and shows the current selection in it.
	//
	// Parameters:
	//   - view: the view to drive
	Bind(view coverflow.View)

	// SetFilter hides rows whose title does not contain query, ignoring case. An empty query shows
	// everything. The model identity changes, and a hidden selection moves to the nearest visible row.
	//
	// Parameters:
	//   - query: the substring to match
	SetFilter(query string)

	// Filter returns the current filter query.
	Filter() string

	// Selected returns the selected row.
	Selected() int

	// Select moves the selection to row and scrolls the view to it.
	//
	// Parameters:
	//   - row: the row to select; out-of-range rows are ignored
	Select(row int)
}

type libraryImpl struct {
	movies   []Movie
	hidden   []bool
	filter   string
	identity string
	selected int

	view     coverflow.View
	onSelect func(row int, m Movie)
	logger   *zap.Logger
}

var _ Library = &libraryImpl{}
var _ coverflow.Jumper = &libraryImpl{}

// NewLibrary creates a Library over movies with the first row selected.
//
// Parameters:
//   - movies: the items, already in display order
//   - options: functional options
//
// Returns:
//   - Library: the library
func NewLibrary(movies []Movie, options ...LibraryBuilderOption) Library {
	l := &libraryImpl{
		movies:   movies,
		hidden:   make([]bool, len(movies)),
		identity: uuid.NewString(),
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		opt(l)
	}
	if l.filter != "" {
		l.applyFilter(l.filter)
	}
	l.selected = l.nearestVisible(0)
	return l
}

func (l *libraryImpl) ItemCount() int {
	return len(l.movies)
}

func (l *libraryImpl) IsRowHidden(row int) bool {
	if row < 0 || row >= len(l.hidden) {
		return true
	}
	return l.hidden[row]
}

func (l *libraryImpl) Title(row int) string {
	return l.Movie(row).Title
}

func (l *libraryImpl) Year(row int) string {
	return l.Movie(row).Year
}

func (l *libraryImpl) ImagePath(row int) string {
	return l.Movie(row).Cover
}

func (l *libraryImpl) SynopsisSource(row int) (string, string) {
	m := l.Movie(row)
	return m.Folder, m.Title
}

func (l *libraryImpl) ModelIdentity() string {
	return l.identity
}

func (l *libraryImpl) Movie(row int) Movie {
	if row < 0 || row >= len(l.movies) {
		return Movie{}
	}
	return l.movies[row]
}

func (l *libraryImpl) OnNavigate(direction int) {
	if direction == 0 {
		return
	}
	step := 1
	if direction < 0 {
		step = -1
	}
	for row := l.selected + step; row >= 0 && row < len(l.movies); row += step {
		if !l.hidden[row] {
			l.selected = row
			break
		}
	}
	l.show()
}

func (l *libraryImpl) OnNavigateTo(row int) {
	if row < 0 || row >= len(l.movies) || l.hidden[row] {
		return
	}
	l.selected = row
	l.show()
}

func (l *libraryImpl) OnScrollAnimationComplete(row int) {
	m := l.Movie(row)
	l.logger.Debug("scroll settled", zap.Int("row", row), zap.String("title", m.Title))
}

func (l *libraryImpl) Bind(view coverflow.View) {
	l.view = view
	l.show()
}

func (l *libraryImpl) SetFilter(query string) {
	query = strings.TrimSpace(query)
	l.applyFilter(query)
	l.identity = uuid.NewString()
	if l.IsRowHidden(l.selected) {
		l.selected = l.nearestVisible(l.selected)
	}
	l.logger.Info("filter changed", zap.String("query", query), zap.Int("visible", l.visibleCount()))
	l.show()
}

func (l *libraryImpl) Filter() string {
	return l.filter
}

func (l *libraryImpl) Selected() int {
	return l.selected
}

func (l *libraryImpl) Select(row int) {
	if row < 0 || row >= len(l.movies) {
		return
	}
	l.selected = row
	l.show()
}

// show hands the current selection to the view and schedules the selection callback for when the
// view settles on it.
func (l *libraryImpl) show() {
	if l.view == nil {
		return
	}
	l.view.SetModelAndIndex(l, l.selected, l)
	if l.onSelect == nil || l.IsRowHidden(l.selected) {
		return
	}
	row, m := l.selected, l.movies[l.selected]
	l.view.DeferSelectionEffect(func() {
		l.onSelect(row, m)
	})
}

func (l *libraryImpl) applyFilter(query string) {
	l.filter = query
	needle := strings.ToLower(query)
	for i, m := range l.movies {
		l.hidden[i] = needle != "" && !strings.Contains(strings.ToLower(m.Title), needle)
	}
}

// nearestVisible returns the first visible row at or after row, else the last visible row before it.
// With nothing visible it returns row unchanged.
func (l *libraryImpl) nearestVisible(row int) int {
	for r := max(row, 0); r < len(l.movies); r++ {
		if !l.hidden[r] {
			return r
		}
	}
	for r := min(row, len(l.movies)) - 1; r >= 0; r-- {
		if !l.hidden[r] {
			return r
		}
	}
	return row
}

func (l *libraryImpl) visibleCount() int {
	n := 0
	for _, h := range l.hidden {
		if !h {
			n++
		}
	}
	return n
}
