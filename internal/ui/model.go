package ui

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/wikify/wikify/internal/config"
	"github.com/wikify/wikify/internal/logging"
	"github.com/wikify/wikify/internal/recommend"
	"github.com/wikify/wikify/internal/wiki"
)

type State int

const (
	StateOnboarding State = iota
	StateFetching
	StateReviewing
	StateMessage
)

func (s State) String() string {
	switch s {
	case StateOnboarding:
		return "Onboarding"
	case StateFetching:
		return "Fetching"
	case StateReviewing:
		return "Reviewing"
	case StateMessage:
		return "Message"
	default:
		return "Unknown"
	}
}

type Model struct {
	state  State
	width  int
	height int
	styles Styles
	keys   KeyMap

	themeIndex int
	showHelp   bool

	cfg         *config.Config
	session     *recommend.Session
	store       *recommend.Store
	unsubscribe func()
	cancelFetch context.CancelFunc

	username  string
	interests recommend.InterestSet
	sort      recommend.SortSpec
	summary   recommend.Summary

	form       *huh.Form
	formResult *OnboardingResult

	listView ListView
	spinner  spinner.Model

	statusMessage string
	messageType   string
}

// NewModel builds the TUI around session. A valid saved profile skips
// onboarding and starts fetching right away.
func NewModel(cfg *config.Config, session *recommend.Session) *Model {
	if cfg == nil {
		cfg = config.Default()
	}

	themeNames := GetThemeNames()
	themeIndex := 0
	themeName := themeNames[0]
	for i, name := range themeNames {
		if name == cfg.Theme {
			themeIndex = i
			themeName = name
			break
		}
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(Themes[themeName].Primary))

	m := &Model{
		styles:     NewStyles(Themes[themeName]),
		keys:       DefaultKeyMap(),
		themeIndex: themeIndex,
		cfg:        cfg,
		session:    session,
		store:      session.Store(),
		spinner:    s,
	}
	m.listView = NewListView(80, 24)
	m.listView.UpdateTableStyles(Themes[themeName])

	// Store notifications arrive synchronously from ToggleDone/Apply, which
	// only run inside Update.
	m.unsubscribe = m.store.Subscribe(func(sum recommend.Summary) {
		m.summary = sum
	})
	m.summary = m.store.Summary()

	profile, err := config.LoadProfile()
	if err != nil {
		logging.Warn().Err(err).Msg("ignoring unreadable profile")
	}
	if profile != nil {
		m.username = profile.Username
		m.interests = recommend.NewInterestSet(profile.Categories...)
		m.state = StateFetching
	} else {
		m.state = StateOnboarding
		m.newForm(nil)
	}

	return m
}

// Close stops any in-flight fetch and detaches from the store.
func (m *Model) Close() {
	if m.cancelFetch != nil {
		m.cancelFetch()
	}
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m *Model) newForm(prev *OnboardingResult) {
	m.form, m.formResult = NewOnboardingForm(prev, m.cfg.Theme)
}

func (m *Model) cycleTheme() {
	themeNames := GetThemeNames()
	m.themeIndex = (m.themeIndex + 1) % len(themeNames)
	newTheme := themeNames[m.themeIndex]
	m.styles = NewStyles(Themes[newTheme])
	m.listView.UpdateTableStyles(Themes[newTheme])
	m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(Themes[newTheme].Primary))

	if m.cfg != nil {
		m.cfg.Theme = newTheme
		if err := m.cfg.Save(); err != nil {
			logging.Warn().Err(err).Msg("failed to save theme")
		}
	}
}

func (m *Model) Init() tea.Cmd {
	switch m.state {
	case StateOnboarding:
		return tea.Batch(m.spinner.Tick, m.form.Init())
	case StateFetching:
		return tea.Batch(m.spinner.Tick, m.startFetching())
	}
	return m.spinner.Tick
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.listView.SetWidthHeight(msg.Width, msg.Height)
		if m.state == StateOnboarding {
			return m.updateForm(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case StateChangeMsg:
		m.state = msg.State

	case ArticlesLoadedMsg:
		if !m.session.Apply(msg.Result) {
			return m, nil
		}
		m.cancelFetch = nil
		m.refreshList()
		m.statusMessage = loadedMessage(msg.Result, m.interests.Values())
		m.state = StateReviewing

	case FetchErrorMsg:
		if msg.Generation != m.session.Current() {
			return m, nil
		}
		m.cancelFetch = nil
		m.statusMessage = fmt.Sprintf("Could not load suggestions: %v", msg.Err)
		m.messageType = "error"
		m.state = StateMessage

	default:
		if m.state == StateOnboarding {
			return m.updateForm(msg)
		}
	}

	return m, nil
}

func (m *Model) View() string {
	var content string
	centered := true

	switch m.state {
	case StateOnboarding:
		content = m.onboardingView()
	case StateFetching:
		content = m.fetchingView()
	case StateReviewing:
		content = m.reviewingView()
		centered = false
	case StateMessage:
		content = m.messageView()
	default:
		return "Unknown state"
	}

	if centered && m.width > 0 && m.height > 0 {
		content = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}

	return content
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case StateOnboarding:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.updateForm(msg)
	case StateMessage:
		return m.handleMessageKeys(msg)
	}

	switch {
	case keyMatches(msg, m.keys.Quit):
		return m, tea.Quit
	case keyMatches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	}

	switch m.state {
	case StateReviewing:
		return m.handleReviewingKeys(msg)
	case StateFetching:
		return m.handleFetchingKeys(msg)
	}

	return m, nil
}

// handleFetchingKeys lets the user change interests or refresh while a
// cycle is running. The new cycle supersedes the running one.
func (m *Model) handleFetchingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyMatches(msg, m.keys.Refresh):
		return m, m.startFetching()
	case keyMatches(msg, m.keys.Interest):
		return m, m.toggleInterest(msg)
	}
	return m, nil
}

// toggleInterest flips the interest bound to a digit key and refetches.
func (m *Model) toggleInterest(msg tea.KeyMsg) tea.Cmd {
	idx := int(msg.String()[0] - '1')
	if idx < 0 || idx >= len(AllCategories) {
		return nil
	}
	m.interests.Toggle(AllCategories[idx])
	m.saveProfile()
	return m.startFetching()
}

type StateChangeMsg struct {
	State State
}

// ArticlesLoadedMsg carries a finished fetch cycle. It is applied only if
// its generation is still current.
type ArticlesLoadedMsg struct {
	Result recommend.CycleResult
}

// FetchErrorMsg reports a failed fetch cycle.
type FetchErrorMsg struct {
	Generation recommend.Generation
	Err        error
}

func (m *Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m, tea.Batch(cmd, m.completeOnboarding())
	case huh.StateAborted:
		return m, tea.Quit
	}
	return m, cmd
}

func (m *Model) completeOnboarding() tea.Cmd {
	m.username = strings.TrimSpace(m.formResult.Username)
	m.interests = recommend.NewInterestSet(m.formResult.Categories...)
	m.form = nil
	m.saveProfile()
	logging.Info().Str("username", m.username).Strs("interests", m.interests.Values()).Msg("onboarding complete")
	return m.startFetching()
}

func (m *Model) saveProfile() {
	if m.username == "" {
		return
	}
	p := &config.Profile{Username: m.username, Categories: m.interests.Values()}
	if err := p.Save(); err != nil {
		logging.Warn().Err(err).Msg("failed to save profile")
	}
}

// startFetching begins a new generation and returns the command that runs
// it. Any older cycle still in flight is cancelled; if it reports back
// anyway its result is dropped.
func (m *Model) startFetching() tea.Cmd {
	if m.cancelFetch != nil {
		m.cancelFetch()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelFetch = cancel

	gen := m.session.Begin()
	interests := m.interests.Values()
	session := m.session

	m.state = StateFetching
	m.statusMessage = ""

	return func() tea.Msg {
		res, err := session.Run(ctx, gen, interests)
		if err != nil {
			return FetchErrorMsg{Generation: gen, Err: err}
		}
		return ArticlesLoadedMsg{Result: res}
	}
}

func loadedMessage(res recommend.CycleResult, interests []string) string {
	if len(interests) == 0 {
		return "No interests selected. Press 1-9 to pick some."
	}
	msg := fmt.Sprintf("Loaded %d articles for %s", len(res.Articles), strings.Join(interests, ", "))
	if n := len(res.Degraded); n > 0 {
		msg += fmt.Sprintf(" (%d lookups failed)", n)
	}
	return msg
}

// buildItems returns the store's articles in view order with done flags.
func (m *Model) buildItems() []Item {
	articles := recommend.SortedView(m.store.Articles(), m.sort)
	items := make([]Item, len(articles))
	for i, a := range articles {
		items[i] = Item{Article: a, Done: m.store.IsDone(a.ID)}
	}
	return items
}

func (m *Model) refreshList() {
	m.listView.SetItems(m.buildItems())
}

func (m *Model) handleReviewingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyMatches(msg, m.keys.Up):
		m.listView.MoveCursor(-1)
		return m, nil
	case keyMatches(msg, m.keys.Down):
		m.listView.MoveCursor(1)
		return m, nil
	case keyMatches(msg, m.keys.ToggleDone):
		if item := m.listView.GetItem(m.listView.Cursor()); item != nil {
			m.store.ToggleDone(item.ID)
			m.refreshList()
		}
		return m, nil
	case keyMatches(msg, m.keys.SortCleanup):
		m.setSort(m.sort.Click(recommend.SortCleanupCount))
		return m, nil
	case keyMatches(msg, m.keys.SortRelevant):
		m.setSort(m.sort.Click(recommend.SortRelevance))
		return m, nil
	case keyMatches(msg, m.keys.Refresh):
		return m, m.startFetching()
	case keyMatches(msg, m.keys.Open):
		if item := m.listView.GetItem(m.listView.Cursor()); item != nil {
			if err := openURL(wiki.ArticleURL(item.ID)); err != nil {
				m.statusMessage = fmt.Sprintf("Failed to open URL: %v", err)
				m.messageType = "error"
				m.state = StateMessage
			}
		}
		return m, nil
	case keyMatches(msg, m.keys.CopyURL):
		if url, err := m.CopyCurrentURL(); err != nil {
			m.statusMessage = err.Error()
		} else {
			m.statusMessage = "Copied " + url
		}
		return m, nil
	case keyMatches(msg, m.keys.Export):
		m.export()
		return m, nil
	case keyMatches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil
	case keyMatches(msg, m.keys.Logout):
		return m, m.logout()
	case keyMatches(msg, m.keys.Interest):
		return m, m.toggleInterest(msg)
	case keyMatches(msg, m.keys.Back):
		m.statusMessage = ""
		m.showHelp = false
		return m, nil
	}

	return m, nil
}

func (m *Model) setSort(spec recommend.SortSpec) {
	m.sort = spec
	m.listView.SetSort(spec)
	m.refreshList()
}

func (m *Model) export() {
	err := m.ExportToClipboard()
	if err == nil {
		m.statusMessage = "Articles exported to clipboard."
		m.messageType = "success"
		m.state = StateMessage
		return
	}

	path, ferr := m.ExportToFile()
	if ferr != nil {
		m.statusMessage = fmt.Sprintf("Export failed: %v", err)
		m.messageType = "error"
	} else {
		m.statusMessage = "Clipboard unavailable, exported to " + path
		m.messageType = "success"
	}
	m.state = StateMessage
}

// logout forgets the profile and returns to onboarding with the old values
// pre-filled.
func (m *Model) logout() tea.Cmd {
	if m.cancelFetch != nil {
		m.cancelFetch()
		m.cancelFetch = nil
	}
	if err := config.ClearProfile(); err != nil {
		logging.Warn().Err(err).Msg("failed to clear profile")
	}

	// An empty result at a fresh generation clears the list and drops
	// anything still in flight.
	m.session.Apply(recommend.CycleResult{Generation: m.session.Begin()})
	m.refreshList()

	prev := &OnboardingResult{Username: m.username, Categories: m.interests.Values()}
	m.username = ""
	m.interests = recommend.InterestSet{}
	m.statusMessage = ""
	m.newForm(prev)
	m.state = StateOnboarding
	return m.form.Init()
}

func (m *Model) handleMessageKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.messageType == "error" {
		switch {
		case keyMatches(msg, m.keys.Refresh):
			return m, m.startFetching()
		case keyMatches(msg, m.keys.Quit):
			return m, tea.Quit
		}
	}
	m.state = StateReviewing
	m.statusMessage = ""
	return m, nil
}

func (m *Model) onboardingView() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(m.styles.theme.Primary)).
		Render("  Wikify")
	subtitle := m.styles.Help.Render("  Find Wikipedia articles that need your help")

	var form string
	if m.form != nil {
		form = m.form.View()
	}

	card := m.styles.Card.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		subtitle,
		"",
		form,
	))

	help := m.renderHelpLine([]helpEntry{
		{"x/space", "pick"},
		{"enter", "next"},
		{"ctrl+c", "quit"},
	})

	return lipgloss.JoinVertical(lipgloss.Center, "", card, "", help)
}

func (m *Model) fetchingView() string {
	status := fmt.Sprintf("%s Finding articles...", m.spinner.View())

	scope := "no interests"
	if m.interests.Len() > 0 {
		scope = strings.Join(m.interests.Values(), ", ")
	}

	content := m.styles.Border.Render(
		lipgloss.JoinVertical(lipgloss.Center,
			m.styles.Title.Render("Fetching Suggestions"),
			m.styles.Help.Render(scope),
			"",
			m.styles.Normal.Render(status),
		),
	)

	help := m.renderHelpLine([]helpEntry{{"q", "quit"}})

	return lipgloss.JoinVertical(lipgloss.Center, "", content, "", help)
}

func (m *Model) scoreBanner() string {
	return fmt.Sprintf("Score %d · Done %d/%d", m.summary.Score, m.summary.DoneCount, m.summary.TotalCount)
}

func (m *Model) interestChips() string {
	chips := make([]string, 0, len(AllCategories))
	for i, c := range AllCategories {
		label := fmt.Sprintf("%d %s", i+1, c)
		if m.interests.Contains(c) {
			chips = append(chips, m.styles.ChipOn.Render(label))
		} else {
			chips = append(chips, m.styles.Chip.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

func (m *Model) reviewingView() string {
	headerLeft := m.styles.HelpKey.Render("Wikify")
	if m.username != "" {
		headerLeft += m.styles.HelpDesc.Render(" · " + m.username)
	}
	score := m.styles.Highlight.Render(m.scoreBanner())
	headerGap := ""
	if m.width > 0 {
		gap := m.width - lipgloss.Width(headerLeft) - lipgloss.Width(score) - 4
		if gap > 0 {
			headerGap = strings.Repeat(" ", gap)
		}
	}
	header := m.styles.HeaderBar.Width(max(m.width-1, 1)).Render(headerLeft + headerGap + score)

	var statusLine string
	if m.statusMessage != "" {
		statusLine = m.styles.Help.Render("  " + m.statusMessage)
	}

	parts := []string{header, m.interestChips()}
	if m.showHelp {
		// Full help takes the place of the table and detail pane.
		parts = append(parts, m.renderFullHelp())
		if statusLine != "" {
			parts = append(parts, statusLine)
		}
	} else {
		var list string
		if m.listView.Len() == 0 {
			list = m.styles.Normal.Render("  No suggestions for these interests")
		} else {
			list = m.listView.View()
		}
		parts = append(parts, list)

		if m.listView.Len() > 0 {
			if detailContent := m.listView.DetailView(m.width, m.styles); detailContent != "" {
				divider := m.styles.HelpSep.Render(strings.Repeat("─", max(m.width-1, 1)))
				parts = append(parts, divider+"\n"+detailContent)
			}
		}
		if statusLine != "" {
			parts = append(parts, statusLine)
		}
		parts = append(parts, m.renderReviewFooter())
	}

	content := strings.Join(parts, "\n")

	// Pad output to exactly m.height lines so the alternate screen buffer
	// repaints cleanly and doesn't leave stale content from previous frames.
	if m.height > 0 {
		rendered := strings.Split(content, "\n")
		for len(rendered) < m.height {
			rendered = append(rendered, "")
		}
		return strings.Join(rendered[:m.height], "\n")
	}
	return content
}

func (m *Model) messageView() string {
	var icon, title string
	var titleStyle lipgloss.Style
	var help string

	if m.messageType == "error" {
		icon = "✗"
		title = "Error"
		titleStyle = m.styles.Error
		help = m.renderHelpLine([]helpEntry{{"R", "retry"}, {"q", "quit"}, {"any key", "back"}})
	} else {
		icon = "✓"
		title = "Success"
		titleStyle = m.styles.Success
		help = m.renderHelpLine([]helpEntry{{"any key", "continue"}})
	}

	content := m.styles.Border.Render(
		lipgloss.JoinVertical(lipgloss.Center,
			titleStyle.Render(icon+" "+title),
			"",
			m.styles.Normal.Render(m.statusMessage),
		),
	)

	return lipgloss.JoinVertical(lipgloss.Center, "", content, "", help)
}

// Help rendering

type helpEntry struct {
	key  string
	desc string
}

func (m *Model) renderHelpLine(entries []helpEntry) string {
	var parts []string
	sep := m.styles.HelpSep.Render(" · ")
	for _, e := range entries {
		parts = append(parts, m.styles.HelpKey.Render(e.key)+" "+m.styles.HelpDesc.Render(e.desc))
	}
	return strings.Join(parts, sep)
}

func (m *Model) renderReviewFooter() string {
	line := []helpEntry{
		{"j/k", "navigate"},
		{"x", "done"},
		{"c/v", "sort"},
		{"1-9", "interests"},
		{"R", "refresh"},
		{"o", "open"},
		{"y", "copy"},
		{"e", "export"},
		{"?", "help"},
		{"q", "quit"},
	}

	return m.styles.FooterBar.Width(max(m.width-1, 1)).Render(m.renderHelpLine(line))
}

func (m *Model) renderFullHelp() string {
	sections := []struct {
		title   string
		entries []helpEntry
	}{
		{"Navigation", []helpEntry{
			{"j / ↓", "move down"},
			{"k / ↑", "move up"},
		}},
		{"Review", []helpEntry{
			{"x / space", "toggle done"},
			{"c", "sort by cleanup count"},
			{"v", "sort by relevance"},
			{"1-9", "toggle interest"},
			{"R", "refresh suggestions"},
		}},
		{"Operations", []helpEntry{
			{"o", "open article in browser"},
			{"y", "copy article URL"},
			{"e", "export to clipboard"},
			{"t", "cycle theme"},
			{"L", "log out"},
		}},
		{"General", []helpEntry{
			{"?", "toggle this help"},
			{"q / ctrl+c", "quit"},
		}},
	}

	var lines []string
	for _, sec := range sections {
		lines = append(lines, m.styles.HelpKey.Render("  "+sec.title))
		for _, e := range sec.entries {
			lines = append(lines, fmt.Sprintf("    %s  %s",
				m.styles.HelpKey.Render(fmt.Sprintf("%-12s", e.key)),
				m.styles.HelpDesc.Render(e.desc),
			))
		}
	}

	return m.styles.FooterBar.Width(max(m.width-1, 1)).Render(strings.Join(lines, "\n"))
}

func keyMatches(msg tea.KeyMsg, target key.Binding) bool {
	for _, k := range target.Keys() {
		if msg.String() == k {
			return true
		}
	}
	return false
}

func openURL(url string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "windows":
		cmd = "rundll32"
		args = []string{"url.dll,FileProtocolHandler", url}
	case "darwin":
		cmd = "open"
		args = []string{url}
	default:
		cmd = "xdg-open"
		args = []string{url}
	}
	return exec.Command(cmd, args...).Start()
}
