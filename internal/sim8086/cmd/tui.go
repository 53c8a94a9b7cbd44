package cmd

import (
	"fmt"
	"io"
	"os"
	pathpkg "path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"sim8086/internal/listing"
	"sim8086/internal/sim8086/styles"
	"sim8086/internal/ui/colorize"
)

type viewMode int

const (
	viewListing viewMode = iota
	viewDetail
	viewInfo
)

// entryItem is one listing line in the instruction list.
type entryItem struct {
	entry listing.Entry
}

func (i entryItem) FilterValue() string {
	return fmt.Sprintf("%04x %s", i.entry.Offset, i.entry.Text)
}

type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(entryItem)
	if !ok {
		return
	}

	var addrStyle lipgloss.Style
	var indicator string

	if index == m.Index() {
		indicator = ">"
		addrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170")) // Purple for selected offset
	} else {
		indicator = " "
		addrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")) // Gray for normal offset
	}
	bytesStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

	text := i.entry.Text
	if i.entry.Err != nil {
		text = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(text)
	} else {
		text = colorize.ColorizeInstructionLine(text)
	}

	str := fmt.Sprintf(" %s  %s  %s  %s",
		indicator,
		addrStyle.Render(fmt.Sprintf("%04x", i.entry.Offset)),
		bytesStyle.Render(fmt.Sprintf("%-12s", listing.HexBytes(i.entry.Raw))),
		text)
	if len(i.entry.Annotations) > 0 {
		str += bytesStyle.Render("  ; " + strings.Join(i.entry.Annotations, ", "))
	}

	fmt.Fprint(w, str)
}

type model struct {
	entries  list.Model
	detail   viewport.Model
	info     viewport.Model
	spinner  spinner.Model
	mode     viewMode
	filepath string
	opts     listing.Options
	listing  listing.Listing
	loading  bool
	err      error
	width    int
	height   int
}

type listingMsg struct {
	listing listing.Listing
	err     error
}

func loadListingCmd(filepath string, opts listing.Options) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(filepath)
		if err != nil {
			return listingMsg{err: err}
		}
		return listingMsg{listing: listing.Build(data, opts)}
	}
}

func newModel(filepath string, opts listing.Options) model {
	entries := list.New([]list.Item{}, itemDelegate{}, 80, 24)
	entries.SetShowStatusBar(false)
	entries.SetFilteringEnabled(true)
	entries.Title = "Listing"
	entries.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("99")).
		MarginLeft(2)
	entries.SetShowHelp(true)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))

	detail := viewport.New()
	detail.SetWidth(80)
	detail.SetHeight(24)

	info := viewport.New()
	info.SetWidth(80)
	info.SetHeight(24)

	m := model{
		entries:  entries,
		detail:   detail,
		info:     info,
		spinner:  s,
		mode:     viewListing,
		filepath: filepath,
		opts:     opts,
		loading:  true,
		width:    80,
		height:   24,
	}
	m.updateInfo()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		loadListingCmd(m.filepath, m.opts),
		m.spinner.Tick,
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case listingMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.listing = msg.listing
			m.updateEntries()
		}
		m.updateInfo()
		if m.err != nil || len(m.listing.Entries) == 0 {
			m.mode = viewInfo
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.loading {
			m.updateInfo()
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		if msg.Width != m.width || msg.Height != m.height {
			m.width = msg.Width
			m.height = msg.Height
			m.entries.SetWidth(msg.Width)
			m.entries.SetHeight(msg.Height - 2)
			m.detail.SetWidth(msg.Width)
			m.detail.SetHeight(msg.Height - 2)
			m.info.SetWidth(msg.Width)
			m.info.SetHeight(msg.Height - 2)

			m.updateInfo()
			if m.mode == viewDetail {
				m.updateDetail()
			}
		}

	case tea.KeyMsg:
		// Let the list see every key while a filter is being typed
		if m.mode == viewListing && m.entries.FilterState() == list.Filtering {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			break
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "l":
			m.mode = viewListing
			return m, nil
		case "i":
			m.mode = viewInfo
			return m, nil
		case "esc":
			if m.mode == viewDetail {
				m.mode = viewListing
				return m, nil
			}
		case "enter":
			if m.mode == viewListing && m.updateDetail() {
				m.mode = viewDetail
			}
			return m, nil
		case "tab":
			m.mode = m.nextMode(1)
			if m.mode == viewDetail {
				m.updateDetail()
			}
			return m, nil
		case "shift+tab":
			m.mode = m.nextMode(-1)
			if m.mode == viewDetail {
				m.updateDetail()
			}
			return m, nil
		}
	}

	switch m.mode {
	case viewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case viewInfo:
		m.info, cmd = m.info.Update(msg)
	default:
		m.entries, cmd = m.entries.Update(msg)
	}
	return m, cmd
}

// nextMode cycles listing, detail and info. The detail view is skipped
// when nothing is selected.
func (m model) nextMode(step int) viewMode {
	modes := []viewMode{viewListing, viewDetail, viewInfo}
	mode := m.mode
	for range modes {
		mode = viewMode((int(mode) + step + len(modes)) % len(modes))
		if mode != viewDetail || m.entries.SelectedItem() != nil {
			return mode
		}
	}
	return m.mode
}

func (m model) View() string {
	var content string
	var menu string
	switch m.mode {
	case viewDetail:
		content = m.detail.View()
		menu = " Esc/L: listing • I: info • Tab: cycle • Q: quit "
	case viewInfo:
		content = m.info.View()
		menu = " L: listing • Tab: cycle • Q: quit "
	default:
		content = m.entries.View()
		menu = " Enter: explain • /: filter • I: info • Tab: cycle • Q: quit "
	}

	menuStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("252")).
		Padding(0, 1).
		Width(m.width)

	return content + "\n" + menuStyle.Render(menu)
}

func (m *model) updateEntries() {
	items := make([]list.Item, 0, len(m.listing.Entries))
	for _, e := range m.listing.Entries {
		items = append(items, entryItem{entry: e})
	}
	m.entries.SetItems(items)
	m.entries.Title = fmt.Sprintf("Listing (%d)", len(items))
}

// updateDetail renders the bit layout of the selected entry. It reports
// whether an entry was selected.
func (m *model) updateDetail() bool {
	item, ok := m.entries.SelectedItem().(entryItem)
	if !ok {
		return false
	}
	m.detail.SetContent(m.render(listing.Explain(item.entry)))
	m.detail.GotoTop()
	return true
}

func (m *model) updateInfo() {
	relPath := m.filepath
	if cwd, err := os.Getwd(); err == nil {
		if rel, err := pathpkg.Rel(cwd, m.filepath); err == nil {
			relPath = rel
		}
	}

	var markdown string
	switch {
	case m.loading:
		markdown = fmt.Sprintf("# sim8086\n\n```\n; %s\n```\n\n%s Decoding...", relPath, m.spinner.View())
	case m.err != nil:
		markdown = fmt.Sprintf("# sim8086\n\n```\n; %s\n```\n\n**Error:** %v", relPath, m.err)
	default:
		markdown = listing.Summary(relPath, m.listing)
	}
	m.info.SetContent(m.render(markdown))
}

func (m *model) render(markdown string) string {
	width := m.width
	if width == 0 {
		width = 80
	}
	return strings.TrimSuffix(styles.Render(markdown, width-2), "\n")
}
