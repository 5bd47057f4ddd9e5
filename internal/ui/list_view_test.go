package ui

import (
	"strings"
	"testing"

	"github.com/wikify/wikify/internal/recommend"
)

func item(id int64, title string) Item {
	return Item{Article: recommend.Article{ID: id, Title: title}}
}

func TestListView_SetItems(t *testing.T) {
	lv := NewListView(80, 20)
	lv.SetItems([]Item{item(1, "Item 1"), item(2, "Item 2")})

	if lv.Len() != 2 {
		t.Errorf("expected 2 items, got %d", lv.Len())
	}
	if got := lv.GetItem(0); got.Title != "Item 1" {
		t.Errorf("expected Item 1, got %s", got.Title)
	}
}

func TestListView_SetItemsKeepsCursorOnArticle(t *testing.T) {
	lv := NewListView(80, 20)
	lv.SetItems([]Item{item(1, "a"), item(2, "b"), item(3, "c")})
	lv.SetCursor(1)

	lv.SetItems([]Item{item(3, "c"), item(1, "a"), item(2, "b")})
	if lv.Cursor() != 2 {
		t.Errorf("expected cursor to follow article 2 to index 2, got %d", lv.Cursor())
	}

	lv.SetItems([]Item{item(9, "z")})
	if lv.Cursor() != 0 {
		t.Errorf("expected cursor clamped to 0, got %d", lv.Cursor())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		max      int
		expected string
	}{
		{"Hello World", 5, "Hell…"},
		{"Hello", 10, "Hello"},
		{"こんにちは", 5, "こん…"},
	}

	for _, tt := range tests {
		got := Truncate(tt.input, tt.max)
		if got != tt.expected {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.expected)
		}
	}
}

func TestFormatRelevance(t *testing.T) {
	if got := formatRelevance(65); got != "65" {
		t.Errorf("expected 65, got %s", got)
	}
	if got := formatRelevance(12.5); got != "12.5" {
		t.Errorf("expected 12.5, got %s", got)
	}
}

func TestListView_SortMarks(t *testing.T) {
	lv := NewListView(120, 24)
	lv.SetSort(recommend.SortSpec{Key: recommend.SortRelevance, Dir: recommend.Descending})

	view := lv.View()
	if !strings.Contains(view, "Relevance ▼") {
		t.Errorf("expected descending mark on relevance header:\n%s", view)
	}
	if strings.Contains(view, "Cleanup ▲") {
		t.Error("unexpected mark on cleanup header")
	}
}

func TestListView_SetWidthHeight(t *testing.T) {
	lv := NewListView(80, 24)
	lv.SetItems([]Item{item(1, "Test")})

	lv.SetWidthHeight(120, 40)
	if lv.width != 120 {
		t.Errorf("expected width 120, got %d", lv.width)
	}
	if lv.height != 40 {
		t.Errorf("expected height 40, got %d", lv.height)
	}
}

func TestListView_View(t *testing.T) {
	lv := NewListView(100, 24)
	done := item(1, "Test")
	done.Done = true
	done.CleanupMessages = []string{"a", "b"}
	lv.SetItems([]Item{done})

	view := lv.View()
	if !strings.Contains(view, "✓") {
		t.Error("expected done mark in view")
	}
}

func TestListView_DetailView(t *testing.T) {
	lv := NewListView(100, 24)
	it := item(42, "Photosynthesis")
	it.RelatedCategories = []string{"Science"}
	it.CleanupMessages = []string{"Articles needing additional references"}
	lv.SetItems([]Item{it})

	detail := lv.DetailView(100, DefaultStyles())
	for _, want := range []string{"Photosynthesis", "curid=42", "in:Science", "Articles needing additional references"} {
		if !strings.Contains(detail, want) {
			t.Errorf("detail missing %q:\n%s", want, detail)
		}
	}
	if n := len(strings.Split(detail, "\n")); n != detailPaneHeight {
		t.Errorf("expected %d detail lines, got %d", detailPaneHeight, n)
	}
}

func TestListView_GetItemOutOfBounds(t *testing.T) {
	lv := NewListView(80, 24)
	lv.SetItems([]Item{item(1, "Test")})

	if got := lv.GetItem(-1); got != nil {
		t.Error("expected nil for negative index")
	}
	if got := lv.GetItem(5); got != nil {
		t.Error("expected nil for out-of-bounds index")
	}
}

func TestListView_CursorBoundary(t *testing.T) {
	lv := NewListView(80, 24)
	lv.SetItems([]Item{item(1, ""), item(2, "")})

	// SetCursor out of bounds should be ignored
	lv.SetCursor(10)
	if lv.Cursor() != 0 {
		t.Errorf("expected cursor 0 after out-of-bounds set, got %d", lv.Cursor())
	}

	lv.SetCursor(-1)
	if lv.Cursor() != 0 {
		t.Errorf("expected cursor 0 after negative set, got %d", lv.Cursor())
	}

	// MoveCursor out of bounds should be ignored
	lv.MoveCursor(-1)
	if lv.Cursor() != 0 {
		t.Errorf("expected cursor 0 after negative move, got %d", lv.Cursor())
	}

	lv.MoveCursor(5)
	if lv.Cursor() != 0 {
		t.Errorf("expected cursor 0 after large move, got %d", lv.Cursor())
	}
}

func TestThemeNames(t *testing.T) {
	for _, name := range GetThemeNames() {
		if _, ok := Themes[name]; !ok {
			t.Errorf("theme %q listed but not defined", name)
		}
	}
	if len(GetThemeNames()) != len(Themes) {
		t.Error("every theme should be reachable by cycling")
	}
}
