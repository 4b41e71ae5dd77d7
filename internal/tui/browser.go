package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/calebmills/redlead/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(1, 0, 1, 2)

	itemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true).
			Padding(0, 0, 0, 2)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Padding(0, 0, 0, 2)
)

type mode int

const (
	modeList mode = iota
	modeDetail
)

type browserModel struct {
	store  model.LeadBrowser
	leads  []model.LeadSummary
	cursor int
	mode   mode

	viewport viewport.Model
	ready    bool
	width    int
	height   int

	errMsg string
}

func (m browserModel) Init() tea.Cmd {
	return nil
}

func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeList:
			return m.updateList(msg)
		case modeDetail:
			return m.updateDetail(msg)
		}
	}
	return m, nil
}

func (m browserModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.leads)-1 {
			m.cursor++
		}
	case "s":
		m.errMsg = ""
		if len(m.leads) == 0 {
			break
		}
		lead := &m.leads[m.cursor]
		next := model.NextStatus(lead.Status)
		if err := m.store.UpdateLeadStatus(lead.ID, next); err != nil {
			m.errMsg = fmt.Sprintf("update status: %v", err)
			break
		}
		lead.Status = next
	case "enter":
		m.errMsg = ""
		if len(m.leads) == 0 {
			break
		}
		posts, err := m.store.ListPostsByLead(m.leads[m.cursor].ID)
		if err != nil {
			m.errMsg = fmt.Sprintf("load posts: %v", err)
			break
		}
		m.viewport.SetContent(renderPosts(m.leads[m.cursor], posts))
		m.viewport.GotoTop()
		m.mode = modeDetail
	}
	return m, nil
}

func (m browserModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		m.mode = modeList
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m browserModel) View() string {
	switch m.mode {
	case modeDetail:
		return m.detailView()
	default:
		return m.listView()
	}
}

func (m browserModel) listView() string {
	s := titleStyle.Render(fmt.Sprintf("Leads (%d)", len(m.leads)))
	s += "\n"

	if len(m.leads) == 0 {
		s += itemStyle.Render("No leads yet. Run `redlead generate` first.") + "\n"
	}

	for i, l := range m.leads {
		label := fmt.Sprintf("u/%-20s %-10s %2d post(s)  %s",
			l.RedditUsername,
			statusStyle.Render(string(l.Status)),
			l.PostCount,
			l.CreatedAt.Format("2006-01-02 15:04"),
		)
		if i == m.cursor {
			s += selectedStyle.Render("> "+label) + "\n"
		} else {
			s += itemStyle.Render(label) + "\n"
		}
	}

	if m.errMsg != "" {
		s += errStyle.Render(m.errMsg) + "\n"
	}

	s += hintStyle.Render("↑/↓/j/k navigate  enter posts  s cycle status  q quit")
	return s
}

func (m browserModel) detailView() string {
	if !m.ready {
		return "loading..."
	}
	header := titleStyle.Render(fmt.Sprintf("u/%s — posts", m.leads[m.cursor].RedditUsername))
	hint := hintStyle.Render("↑/↓ scroll  esc back  q quit")
	return header + "\n" + m.viewport.View() + "\n" + hint
}

// renderPosts formats a lead's posts for the detail viewport.
func renderPosts(lead model.LeadSummary, posts []model.Post) string {
	if len(posts) == 0 {
		return itemStyle.Render("No posts recorded for this lead.")
	}

	var b strings.Builder
	for _, p := range posts {
		posted := "unknown"
		if p.PostedAt != nil {
			posted = p.PostedAt.Format("2006-01-02 15:04 MST")
		}
		fmt.Fprintf(&b, "%s\n", selectedStyle.Render(p.Title))
		fmt.Fprintf(&b, "    r/%s · %s · %s · posted %s\n", p.Subreddit, p.Trigger, p.Category, posted)
		fmt.Fprintf(&b, "    %s\n", p.URL)
		fmt.Fprintf(&b, "    reddit id %s\n\n", p.RedditPostID)
	}
	return b.String()
}

// RunBrowser loads all leads and starts the interactive browser.
func RunBrowser(store model.LeadBrowser) error {
	leads, err := store.ListLeads()
	if err != nil {
		return fmt.Errorf("list leads: %w", err)
	}

	m := browserModel{
		store: store,
		leads: leads,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
