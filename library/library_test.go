package library

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Carmen-Shannon/coverflow/engine/coverflow"
)

func TestParseFolderName(t *testing.T) {
	tests := []struct {
		name      string
		wantTitle string
		wantYear  string
	}{
		{"Alien (1979)", "Alien", "1979"},
		{"Blade Runner 2049 (2017) ", "Blade Runner 2049", "2017"},
		{"Heat(1995)", "Heat", "1995"},
		{"Home Videos", "Home Videos", ""},
		{"(1999)", "(1999)", ""},
		{"Brazil (Director's Cut)", "Brazil (Director's Cut)", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, year := ParseFolderName(tt.name)
			if title != tt.wantTitle || year != tt.wantYear {
				t.Errorf("ParseFolderName(%q) = %q, %q, want %q, %q", tt.name, title, year, tt.wantTitle, tt.wantYear)
			}
		})
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "Zodiac (2007)", "folder.png"))
	touch(t, filepath.Join(root, "Zodiac (2007)", "poster.JPG"))
	touch(t, filepath.Join(root, "alien (1979)", "Cover.webp"))
	touch(t, filepath.Join(root, "alien (1979)", "poster.txt"))
	touch(t, filepath.Join(root, "Memento (2000)", "backdrop.jpg"))
	touch(t, filepath.Join(root, ".trash", "poster.jpg"))
	touch(t, filepath.Join(root, "readme.txt"))

	movies, err := Scan(root)
	if err != nil {
		t.Fatal(err)
	}
	want := []Movie{
		{Title: "alien", Year: "1979", Folder: filepath.Join(root, "alien (1979)"), Cover: filepath.Join(root, "alien (1979)", "Cover.webp")},
		{Title: "Memento", Year: "2000", Folder: filepath.Join(root, "Memento (2000)")},
		{Title: "Zodiac", Year: "2007", Folder: filepath.Join(root, "Zodiac (2007)"), Cover: filepath.Join(root, "Zodiac (2007)", "poster.JPG")},
	}
	if !reflect.DeepEqual(movies, want) {
		t.Errorf("Scan =\n%+v\nwant\n%+v", movies, want)
	}
}

func TestScanMissingRoot(t *testing.T) {
	if _, err := Scan(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Scan of a missing directory succeeded")
	}
}

type shown struct {
	row      int
	identity string
}

// recordingView keeps every SetModelAndIndex call and runs selection effects at once.
type recordingView struct {
	coverflow.View
	calls []shown
}

func (v *recordingView) SetModelAndIndex(model coverflow.HostBinding, row int, rows coverflow.VisibleRows) {
	v.calls = append(v.calls, shown{row: row, identity: model.(coverflow.Identified).ModelIdentity()})
}

func (v *recordingView) DeferSelectionEffect(fn func()) { fn() }

func (v *recordingView) last() shown { return v.calls[len(v.calls)-1] }

func testMovies() []Movie {
	return []Movie{
		{Title: "Alien"}, {Title: "Aliens"}, {Title: "Brazil"}, {Title: "Heat"}, {Title: "Alien 3"},
	}
}

func TestNavigateSkipsHiddenRows(t *testing.T) {
	var selected []string
	l := NewLibrary(testMovies(), WithSelectionCallback(func(row int, m Movie) {
		selected = append(selected, m.Title)
	}))
	v := &recordingView{}
	l.Bind(v)
	l.SetFilter("alien")

	l.OnNavigate(1)
	if l.Selected() != 1 {
		t.Errorf("selected = %d, want 1", l.Selected())
	}
	l.OnNavigate(1)
	if l.Selected() != 4 {
		t.Errorf("selected = %d, want 4 past hidden rows", l.Selected())
	}
	l.OnNavigate(1)
	if l.Selected() != 4 || v.last().row != 4 {
		t.Errorf("selected = %d, want to stay at the last visible row", l.Selected())
	}
	l.OnNavigate(-1)
	if l.Selected() != 1 {
		t.Errorf("selected = %d, want 1", l.Selected())
	}

	want := []string{"Alien", "Alien", "Aliens", "Alien 3", "Alien 3", "Aliens"}
	if !reflect.DeepEqual(selected, want) {
		t.Errorf("selection effects = %q, want %q", selected, want)
	}
}

func TestNavigateToJumpsToVisibleRows(t *testing.T) {
	l := NewLibrary(testMovies())
	v := &recordingView{}
	l.Bind(v)
	l.SetFilter("alien")
	calls := len(v.calls)
	j := l.(coverflow.Jumper)

	j.OnNavigateTo(4)
	if l.Selected() != 4 || v.last().row != 4 {
		t.Errorf("selected = %d, last shown = %+v, want row 4", l.Selected(), v.last())
	}
	if len(v.calls) != calls+1 {
		t.Errorf("shown %d times, want once", len(v.calls)-calls)
	}

	j.OnNavigateTo(2)
	j.OnNavigateTo(-1)
	j.OnNavigateTo(5)
	if l.Selected() != 4 || len(v.calls) != calls+1 {
		t.Errorf("selected = %d after hidden and out-of-range jumps, want 4 unchanged", l.Selected())
	}
}

func TestSetFilterChangesIdentityAndMovesHiddenSelection(t *testing.T) {
	l := NewLibrary(testMovies())
	v := &recordingView{}
	l.Bind(v)
	l.Select(3)
	before := l.ModelIdentity()

	l.SetFilter("  ALIEN ")
	if l.ModelIdentity() == before {
		t.Error("identity unchanged by filter")
	}
	if l.Filter() != "ALIEN" {
		t.Errorf("filter = %q", l.Filter())
	}
	if got := []bool{l.IsRowHidden(0), l.IsRowHidden(2), l.IsRowHidden(3), l.IsRowHidden(4)}; !reflect.DeepEqual(got, []bool{false, true, true, false}) {
		t.Errorf("hidden = %v", got)
	}
	if l.Selected() != 4 || v.last() != (shown{4, l.ModelIdentity()}) {
		t.Errorf("selected = %d, last shown = %+v, want row 4", l.Selected(), v.last())
	}

	l.SetFilter("zzz")
	if l.Selected() != 4 {
		t.Errorf("selected = %d, want unchanged with nothing visible", l.Selected())
	}
	l.SetFilter("")
	for row := 0; row < l.ItemCount(); row++ {
		if l.IsRowHidden(row) {
			t.Errorf("row %d hidden with an empty filter", row)
		}
	}
}

func TestInitialFilterSelectsFirstVisible(t *testing.T) {
	l := NewLibrary(testMovies(), WithFilter("heat"))
	if l.Selected() != 3 {
		t.Errorf("selected = %d, want 3", l.Selected())
	}
	if !l.IsRowHidden(-1) || !l.IsRowHidden(5) {
		t.Error("out-of-range rows reported visible")
	}
	if l.Title(9) != "" {
		t.Error("out-of-range title not empty")
	}
}
