package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gfabridge/pkg/graph"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	tabActiveStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
	tabStyle          = lipgloss.NewStyle().Foreground(colorGray)
)

// browseCommand creates the browse command, an interactive record browser.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <file|url>",
		Short: "Browse segments, links and paths interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			p := tea.NewProgram(NewBrowserModel(store), tea.WithContext(cmd.Context()), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}

// =============================================================================
// BrowserModel - Interactive record browser
// =============================================================================

// BrowserModel is the bubbletea model for browsing one store by kind.
type BrowserModel struct {
	Store  *graph.Store
	Kind   graph.Kind
	Cursor int
	Offset int
	Height int
	Detail bool
}

// NewBrowserModel creates a browser positioned at the first segment.
func NewBrowserModel(s *graph.Store) BrowserModel {
	return BrowserModel{Store: s, Kind: graph.KindSegment, Height: 15}
}

func (m BrowserModel) Init() tea.Cmd {
	return nil
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.Detail {
				m.Detail = false
				return m, nil
			}
			return m, tea.Quit
		case "tab", "right", "l":
			m = m.switchKind((m.Kind + 1) % graph.Kind(len(graph.Kinds)))
		case "shift+tab", "left", "h":
			m = m.switchKind((m.Kind + graph.Kind(len(graph.Kinds)) - 1) % graph.Kind(len(graph.Kinds)))
		case "1", "2", "3":
			m = m.switchKind(graph.Kind(msg.String()[0] - '1'))
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < m.count()-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if n := m.count(); n > 0 {
				m.Cursor = n - 1
				m.Offset = max(0, n-m.Height)
			}
		case "enter":
			if m.count() > 0 {
				m.Detail = !m.Detail
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m BrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("gfabridge"))
	b.WriteString("  ")
	for i, k := range graph.Kinds {
		n, _ := m.Store.Count(k)
		label := fmt.Sprintf("%d %ss (%d)", i+1, k, n)
		if k == m.Kind {
			b.WriteString(tabActiveStyle.Render(label))
		} else {
			b.WriteString(tabStyle.Render(label))
		}
		b.WriteString("  ")
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⇥ kind  ⏎ details  q quit"))
	b.WriteString("\n\n")

	if m.count() == 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  no %ss", m.Kind)))
		return b.String()
	}

	if m.Detail {
		b.WriteString(m.detailView())
		return b.String()
	}

	end := min(m.Offset+m.Height, m.count())
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, append([]string{cursor, strconv.Itoa(i)}, m.row(i)...))
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(append([]string{"", "#"}, m.headers()...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 1 {
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, m.count())))

	return b.String()
}

func (m BrowserModel) switchKind(k graph.Kind) BrowserModel {
	if k == m.Kind || !k.Valid() {
		return m
	}
	m.Kind = k
	m.Cursor, m.Offset, m.Detail = 0, 0, false
	return m
}

func (m BrowserModel) count() int {
	n, _ := m.Store.Count(m.Kind)
	return n
}

func (m BrowserModel) headers() []string {
	switch m.Kind {
	case graph.KindLink:
		return []string{"From", "To", "Overlap"}
	case graph.KindPath:
		return []string{"Path", "Steps", "Walk"}
	default:
		return []string{"Name", "Length", "Sequence"}
	}
}

func (m BrowserModel) row(i int) []string {
	switch m.Kind {
	case graph.KindLink:
		l, _ := m.Store.LinkAt(i)
		return []string{
			l.FromSegment + graph.Orientation(l.FromOrient).String(),
			l.ToSegment + graph.Orientation(l.ToOrient).String(),
			l.Overlap,
		}
	case graph.KindPath:
		p, _ := m.Store.PathAt(i)
		return []string{p.PathName, strconv.Itoa(len(p.SegmentNames)), truncate(walk(p), 48)}
	default:
		s, _ := m.Store.SegmentAt(i)
		length := "—"
		if s.Sequence != "*" {
			length = strconv.Itoa(len(s.Sequence))
		}
		return []string{s.Name, length, truncate(s.Sequence, 32)}
	}
}

func (m BrowserModel) detailView() string {
	rec, err := m.Store.RecordAt(m.Kind, m.Cursor)
	if err != nil {
		return StyleWarning.Render(err.Error())
	}
	data, err := graph.MarshalRecord(rec)
	if err != nil {
		return StyleWarning.Render(err.Error())
	}
	var b strings.Builder
	b.WriteString(StyleHighlight.Render(fmt.Sprintf("%s %d", m.Kind, m.Cursor)))
	b.WriteString("\n\n")
	b.WriteString(string(data))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render("esc back"))
	return b.String()
}

// walk renders a path as "A+,B-,C+".
func walk(p graph.Path) string {
	var b strings.Builder
	for i, s := range p.SegmentNames {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s.Name)
		b.WriteString(graph.Orientation(s.Forward).String())
	}
	return b.String()
}
