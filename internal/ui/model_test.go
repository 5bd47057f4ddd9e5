package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wikify/wikify/internal/config"
	"github.com/wikify/wikify/internal/recommend"
)

func TestMain(m *testing.M) {
	tmpDir, err := os.MkdirTemp("", "wikify-test")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1)
	}
	defer os.RemoveAll(tmpDir)

	os.Setenv("WIKIFY_CONFIG", filepath.Join(tmpDir, "config.yaml"))

	os.Exit(m.Run())
}

type stubFetcher struct {
	articles []recommend.Article
	err      error
}

func (f *stubFetcher) Fetch(context.Context, []string) (recommend.Candidates, error) {
	if f.err != nil {
		return recommend.Candidates{}, f.err
	}
	return recommend.Candidates{Articles: f.articles, Enriched: true}, nil
}

func (f *stubFetcher) Strategy() recommend.Strategy { return recommend.StrategyBackend }

var historyArticle = recommend.Article{
	ID:                67890,
	Title:             "History Article 2",
	RelatedCategories: []string{"History"},
	CleanupMessages:   []string{"Single cleanup message"},
	Relevance:         65,
}

// newTestModel builds a model; a non-nil profile is saved first so the
// model skips onboarding.
func newTestModel(t *testing.T, f *stubFetcher, profile *config.Profile) *Model {
	t.Helper()
	t.Cleanup(func() { _ = config.ClearProfile() })

	if profile != nil {
		if err := profile.Save(); err != nil {
			t.Fatalf("failed to save profile: %v", err)
		}
	}

	session := recommend.NewSession(f, nil, recommend.NewStore(recommend.DoneRetain))
	m := NewModel(config.Default(), session)
	t.Cleanup(m.Close)
	return m
}

// load runs one fetch cycle synchronously and feeds the result back.
func load(t *testing.T, m *Model) {
	t.Helper()
	cmd := m.startFetching()
	m.Update(cmd())
}

func press(m *Model, keys string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)})
}

func TestNewModelFirstRun(t *testing.T) {
	m := newTestModel(t, &stubFetcher{}, nil)
	if m.state != StateOnboarding {
		t.Errorf("expected initial state StateOnboarding, got %v", m.state)
	}
	if m.form == nil {
		t.Error("expected onboarding form")
	}
	if m.Init() == nil {
		t.Error("expected init command")
	}
}

func TestNewModelWithProfile(t *testing.T) {
	m := newTestModel(t, &stubFetcher{articles: []recommend.Article{historyArticle}},
		&config.Profile{Username: "ada", Categories: []string{"History"}})

	if m.state != StateFetching {
		t.Fatalf("expected StateFetching with saved profile, got %v", m.state)
	}
	if m.username != "ada" {
		t.Errorf("expected username ada, got %s", m.username)
	}

	load(t, m)
	if m.state != StateReviewing {
		t.Fatalf("expected StateReviewing, got %v", m.state)
	}
	if m.summary != (recommend.Summary{DoneCount: 0, TotalCount: 1, Score: 0}) {
		t.Errorf("unexpected summary %+v", m.summary)
	}
	if !strings.Contains(m.statusMessage, "Loaded 1 articles for History") {
		t.Errorf("unexpected status %q", m.statusMessage)
	}
}

func TestToggleDoneUpdatesSummary(t *testing.T) {
	m := newTestModel(t, &stubFetcher{articles: []recommend.Article{historyArticle}},
		&config.Profile{Username: "ada", Categories: []string{"History"}})
	load(t, m)

	press(m, "x")
	if m.summary != (recommend.Summary{DoneCount: 1, TotalCount: 1, Score: 1}) {
		t.Errorf("expected {1 1 1} after toggle, got %+v", m.summary)
	}
	if !m.listView.GetItem(0).Done {
		t.Error("expected row marked done")
	}

	press(m, " ")
	if m.summary != (recommend.Summary{TotalCount: 1}) {
		t.Errorf("expected {0 1 0} after second toggle, got %+v", m.summary)
	}
}

func TestDoneSurvivesRefresh(t *testing.T) {
	m := newTestModel(t, &stubFetcher{articles: []recommend.Article{historyArticle}},
		&config.Profile{Username: "ada", Categories: []string{"History"}})
	load(t, m)
	press(m, "x")

	load(t, m)
	if m.summary.DoneCount != 1 {
		t.Errorf("expected done mark kept across refresh, got %+v", m.summary)
	}
}

func TestStaleGenerationIgnored(t *testing.T) {
	f := &stubFetcher{articles: []recommend.Article{{ID: 1, Title: "old"}}}
	m := newTestModel(t, f, &config.Profile{Username: "ada", Categories: []string{"Science"}})

	first := m.startFetching()
	second := m.startFetching()

	m.Update(first())
	if m.state != StateFetching {
		t.Errorf("stale result must not leave fetching state, got %v", m.state)
	}
	if m.store.Len() != 0 {
		t.Errorf("stale result applied: %d articles", m.store.Len())
	}

	f.articles = []recommend.Article{{ID: 2, Title: "new"}}
	m.Update(second())
	if m.state != StateReviewing {
		t.Fatalf("expected StateReviewing, got %v", m.state)
	}
	if item := m.listView.GetItem(0); item == nil || item.Title != "new" {
		t.Errorf("expected newest generation applied, got %+v", item)
	}
}

func TestFetchErrorState(t *testing.T) {
	f := &stubFetcher{err: &recommend.FetchError{Status: "503 Service Unavailable"}}
	m := newTestModel(t, f, &config.Profile{Username: "ada", Categories: []string{"Science"}})

	load(t, m)
	if m.state != StateMessage || m.messageType != "error" {
		t.Fatalf("expected error message state, got %v/%s", m.state, m.messageType)
	}
	if !strings.Contains(m.statusMessage, "503") {
		t.Errorf("expected status to mention 503, got %q", m.statusMessage)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("R")})
	if cmd == nil || m.state != StateFetching {
		t.Errorf("expected retry to start fetching, got %v", m.state)
	}
}

func TestStaleFetchErrorIgnored(t *testing.T) {
	m := newTestModel(t, &stubFetcher{}, &config.Profile{Username: "ada", Categories: []string{"Science"}})
	m.startFetching()

	m.Update(FetchErrorMsg{Generation: m.session.Current() - 1, Err: fmt.Errorf("late")})
	if m.state != StateFetching {
		t.Errorf("expected stale error ignored, got %v", m.state)
	}
}

func TestNavigation(t *testing.T) {
	f := &stubFetcher{articles: []recommend.Article{
		{ID: 1, Title: "Item 1"},
		{ID: 2, Title: "Item 2"},
		{ID: 3, Title: "Item 3"},
	}}
	m := newTestModel(t, f, &config.Profile{Username: "ada", Categories: []string{"Science"}})
	load(t, m)

	steps := []struct {
		key  string
		want int
	}{
		{"j", 1}, {"j", 2}, {"j", 2}, {"k", 1}, {"k", 0}, {"k", 0},
	}
	for _, s := range steps {
		press(m, s.key)
		if got := m.listView.Cursor(); got != s.want {
			t.Errorf("after %q expected cursor %d, got %d", s.key, s.want, got)
		}
	}
}

func TestSortKeys(t *testing.T) {
	f := &stubFetcher{articles: []recommend.Article{
		{ID: 1, Title: "A", Relevance: 5, CleanupMessages: []string{"x"}},
		{ID: 2, Title: "B", Relevance: 5},
		{ID: 3, Title: "C", Relevance: 3, CleanupMessages: []string{"x", "y"}},
	}}
	m := newTestModel(t, f, &config.Profile{Username: "ada", Categories: []string{"Science"}})
	load(t, m)

	order := func() string {
		var s string
		for i := 0; i < m.listView.Len(); i++ {
			s += m.listView.GetItem(i).Title
		}
		return s
	}

	press(m, "v")
	if got := order(); got != "CAB" {
		t.Errorf("relevance asc: expected CAB, got %s", got)
	}
	press(m, "v")
	if got := order(); got != "ABC" {
		t.Errorf("relevance desc: expected ABC, got %s", got)
	}
	press(m, "c")
	if got := order(); got != "BAC" {
		t.Errorf("cleanup asc: expected BAC, got %s", got)
	}
}

func TestInterestToggleStartsNewGeneration(t *testing.T) {
	m := newTestModel(t, &stubFetcher{}, &config.Profile{Username: "ada", Categories: []string{"Science"}})
	load(t, m)
	before := m.session.Current()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})
	if cmd == nil {
		t.Fatal("expected fetch command")
	}
	if m.session.Current() != before+1 {
		t.Errorf("expected new generation, got %d after %d", m.session.Current(), before)
	}
	if got := m.interests.Values(); len(got) != 2 || got[1] != "History" {
		t.Errorf("expected History added, got %v", got)
	}

	p, err := config.LoadProfile()
	if err != nil || p == nil || len(p.Categories) != 2 {
		t.Errorf("expected profile saved with two interests, got %+v (%v)", p, err)
	}

	press(m, "1")
	if m.interests.Contains("Science") {
		t.Error("expected Science removed")
	}
}

func TestKeysWhileFetching(t *testing.T) {
	m := newTestModel(t, &stubFetcher{articles: []recommend.Article{historyArticle}},
		&config.Profile{Username: "ada", Categories: []string{"History"}})
	load(t, m)

	_, first := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	if m.state != StateFetching || first == nil {
		t.Fatalf("expected fetch to start, got %v", m.state)
	}
	firstGen := m.session.Current()

	_, second := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")})
	if second == nil {
		t.Fatal("expected interest key to work while fetching")
	}
	if got := m.interests.Values(); strings.Join(got, ",") != "History,Science,Politics" {
		t.Errorf("expected Politics added while fetching, got %v", got)
	}
	if m.session.Current() != firstGen+1 {
		t.Errorf("expected a new generation, got %d after %d", m.session.Current(), firstGen)
	}

	m.Update(first())
	if m.state != StateFetching {
		t.Errorf("expected superseded result ignored, got %v", m.state)
	}

	_, refresh := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("R")})
	if refresh == nil || m.session.Current() != firstGen+2 {
		t.Fatalf("expected refresh while fetching to start generation %d, got %d", firstGen+2, m.session.Current())
	}

	m.Update(refresh())
	if m.state != StateReviewing {
		t.Errorf("expected current result applied, got %v", m.state)
	}
}

func TestLogout(t *testing.T) {
	m := newTestModel(t, &stubFetcher{articles: []recommend.Article{historyArticle}},
		&config.Profile{Username: "ada", Categories: []string{"History"}})
	load(t, m)

	press(m, "L")
	if m.state != StateOnboarding {
		t.Fatalf("expected onboarding after logout, got %v", m.state)
	}
	if m.store.Len() != 0 {
		t.Errorf("expected store cleared, got %d", m.store.Len())
	}
	if p, _ := config.LoadProfile(); p != nil {
		t.Error("expected profile removed")
	}
	if m.formResult.Username != "ada" {
		t.Errorf("expected form pre-filled with ada, got %q", m.formResult.Username)
	}
}

func TestThemeCycling(t *testing.T) {
	m := newTestModel(t, &stubFetcher{}, &config.Profile{Username: "ada", Categories: []string{"Science"}})
	load(t, m)
	initialTheme := m.cfg.Theme

	press(m, "t")
	if m.cfg.Theme == initialTheme {
		t.Errorf("expected theme to change, but it's still %s", initialTheme)
	}
}

func TestExportToJSON(t *testing.T) {
	m := newTestModel(t, &stubFetcher{articles: []recommend.Article{historyArticle}},
		&config.Profile{Username: "ada", Categories: []string{"History"}})

	if _, err := m.ExportToJSON(); err == nil {
		t.Error("expected error with no articles")
	}

	load(t, m)
	press(m, "x")

	data, err := m.ExportToJSON()
	if err != nil {
		t.Fatalf("ExportToJSON failed: %v", err)
	}
	for _, want := range []string{`"id": 67890`, `"done": true`, `"score": 1`, `"username": "ada"`, `curid=67890`} {
		if !strings.Contains(data, want) {
			t.Errorf("export missing %s:\n%s", want, data)
		}
	}
}

func TestMessageKeys(t *testing.T) {
	m := newTestModel(t, &stubFetcher{}, &config.Profile{Username: "ada", Categories: []string{"Science"}})
	load(t, m)

	m.state = StateMessage
	m.messageType = "success"
	press(m, "a")
	if m.state != StateReviewing {
		t.Errorf("expected Reviewing state after key in Message, got %v", m.state)
	}
}

func TestViewRendering(t *testing.T) {
	m := newTestModel(t, &stubFetcher{articles: []recommend.Article{historyArticle}}, nil)

	if view := m.View(); view == "" {
		t.Error("Onboarding view is empty")
	}

	m.state = StateFetching
	if view := m.View(); view == "" {
		t.Error("Fetching view is empty")
	}

	m.interests = recommend.NewInterestSet("History")
	load(t, m)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	view := m.View()
	if !strings.Contains(view, "Score 0") {
		t.Errorf("Reviewing view missing score banner:\n%s", view)
	}
	if len(strings.Split(view, "\n")) != 40 {
		t.Errorf("expected view padded to 40 lines")
	}

	m.showHelp = true
	view = m.View()
	for _, want := range []string{"Navigation", "toggle done", "Operations", "General", "quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("full help missing %q:\n%s", want, view)
		}
	}
	if len(strings.Split(view, "\n")) != 40 {
		t.Errorf("expected help view padded to 40 lines")
	}

	m.state = StateMessage
	m.statusMessage = "All done"
	if view := m.View(); !strings.Contains(view, "All done") {
		t.Error("Message view missing text")
	}
}
