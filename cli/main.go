package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"expediter/internal/kds"
	"expediter/internal/models"
)

// Styling
var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(34)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#0a84ff")).
			Padding(0, 1)

	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffd60a"))
	urgentStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff453a"))
	stagedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#30d158"))
	selectStyle  = lipgloss.NewStyle().Reverse(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#ff453a")).
			Padding(0, 1)
)

const refreshEvery = 2 * time.Second

// Model defines the application state
type Model struct {
	stationList   list.Model
	completedList list.Model
	spinner       spinner.Model
	client        *ApiClient
	currentView   string
	station       string
	stationName   string
	columns       *kds.Columns
	batches       []models.BatchSuggestion
	selCol        int
	selRow        int
	error         string
}

// item represents a list item
type item struct {
	title, desc string
	id          string
}

func (i item) FilterValue() string { return i.title }
func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }

// Initialize the model
func initialModel() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	stationList := list.New([]list.Item{
		item{title: "Expo", desc: "All stations", id: ""},
	}, list.NewDefaultDelegate(), 0, 0)
	stationList.Title = "Expediter: choose a station view"

	completedList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	completedList.Title = "Completed Orders (enter to recall)"

	return Model{
		stationList:   stationList,
		completedList: completedList,
		spinner:       s,
		client:        NewApiClient(),
		currentView:   "stations",
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.EnterAltScreen, fetchStations(m.client))
}

// Custom message types for the tea.Model
type stationsMsg struct{ items []list.Item }

type columnsMsg struct {
	cols    *kds.Columns
	batches []models.BatchSuggestion
}

type completedMsg struct{ items []list.Item }

type errorMsg struct{ err string }

type confirmMsg struct{}

type tickMsg struct{}

// Update handles UI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.stationList.SetSize(msg.Width-h, msg.Height-v)
		m.completedList.SetSize(msg.Width-h, msg.Height-v)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "enter":
			switch m.currentView {
			case "stations":
				if selected, ok := m.stationList.SelectedItem().(item); ok {
					m.station = selected.id
					m.stationName = selected.title
					m.currentView = "board"
					m.selCol, m.selRow = 0, 0
					return m, tea.Batch(fetchColumns(m.client, m.station), scheduleTick())
				}
			case "board":
				if v := m.selected(); v != nil {
					return m, advanceOrder(m.client, m.station, v)
				}
			case "completed":
				if selected, ok := m.completedList.SelectedItem().(item); ok {
					return m, recallOrder(m.client, selected.id)
				}
			}
		case "esc":
			switch m.currentView {
			case "board":
				m.currentView = "stations"
			case "completed":
				m.currentView = "board"
				return m, fetchColumns(m.client, m.station)
			}
		case "c":
			if m.currentView == "board" {
				m.currentView = "completed"
				return m, fetchCompleted(m.client)
			}
		case "z":
			if m.currentView == "board" {
				if v := m.selected(); v != nil {
					return m, snoozeOrder(m.client, v.Order.ID)
				}
			}
		case "r":
			if m.currentView == "board" {
				return m, fetchColumns(m.client, m.station)
			}
		case "left", "h":
			if m.currentView == "board" && m.selCol > 0 {
				m.selCol--
				m.selRow = 0
			}
		case "right", "l":
			if m.currentView == "board" && m.selCol < 2 {
				m.selCol++
				m.selRow = 0
			}
		case "up", "k":
			if m.currentView == "board" && m.selRow > 0 {
				m.selRow--
			}
		case "down", "j":
			if m.currentView == "board" && m.selRow < len(m.column(m.selCol))-1 {
				m.selRow++
			}
		}

	case stationsMsg:
		m.stationList.SetItems(msg.items)
		return m, nil
	case columnsMsg:
		m.columns = msg.cols
		m.batches = msg.batches
		if m.selRow >= len(m.column(m.selCol)) {
			m.selRow = 0
		}
		return m, nil
	case completedMsg:
		m.completedList.SetItems(msg.items)
		return m, nil
	case errorMsg:
		m.error = msg.err
		return m, nil
	case confirmMsg:
		m.error = ""
		if m.currentView == "completed" {
			m.currentView = "board"
		}
		return m, fetchColumns(m.client, m.station)
	case tickMsg:
		if m.currentView == "board" {
			return m, tea.Batch(fetchColumns(m.client, m.station), scheduleTick())
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.currentView {
	case "stations":
		m.stationList, cmd = m.stationList.Update(msg)
	case "completed":
		m.completedList, cmd = m.completedList.Update(msg)
	}

	return m, cmd
}

func (m Model) column(i int) []kds.OrderView {
	if m.columns == nil {
		return nil
	}
	switch i {
	case 0:
		return m.columns.Pending
	case 1:
		return m.columns.Preparing
	default:
		return m.columns.Ready
	}
}

func (m Model) selected() *kds.OrderView {
	col := m.column(m.selCol)
	if m.selRow < 0 || m.selRow >= len(col) {
		return nil
	}
	return &col[m.selRow]
}

// View renders the UI
func (m Model) View() string {
	switch m.currentView {
	case "stations":
		return docStyle.Render(m.stationList.View())
	case "completed":
		return docStyle.Render(m.completedList.View())
	case "board":
		return docStyle.Render(m.boardView())
	default:
		return "Loading..."
	}
}

func (m Model) boardView() string {
	title := titleStyle.Render(fmt.Sprintf("Board: %s", m.stationName))
	if m.columns == nil {
		return title + "\n\n" + m.spinner.View() + " loading board..."
	}

	names := []string{"NEW", "PREPARING", "READY"}
	cols := make([]string, 3)
	for i := 0; i < 3; i++ {
		body := headerStyle.Render(fmt.Sprintf("%s (%d)", names[i], len(m.column(i)))) + "\n"
		for row, v := range m.column(i) {
			card := m.ticketView(v)
			if i == m.selCol && row == m.selRow {
				card = selectStyle.Render(card)
			}
			body += card + "\n"
		}
		cols[i] = columnStyle.Render(body)
	}

	out := title + "\n\n" + lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	if len(m.columns.Snoozed) > 0 {
		out += fmt.Sprintf("\nSnoozed: %d order(s)", len(m.columns.Snoozed))
	}
	for _, b := range m.batches {
		out += fmt.Sprintf("\nBatch hint: %dx %s across %d orders", b.TotalQuantity, b.ItemName, b.OrderCount)
	}
	if m.error != "" {
		out += "\n" + errorStyle.Render(m.error)
	}
	out += "\n\narrows: select | enter: advance | z: snooze | c: completed | r: refresh | esc: back | q: quit"
	return out
}

func (m Model) ticketView(v kds.OrderView) string {
	head := fmt.Sprintf("#%s %s", v.Order.OrderNumber, v.Order.DisplayLabel())
	if v.Priority > 0 {
		head = fmt.Sprintf("[%d] %s", v.Priority, head)
	}
	switch v.Urgency {
	case kds.UrgencyUrgent:
		head = urgentStyle.Render(head)
	case kds.UrgencyWarning:
		head = warningStyle.Render(head)
	}
	if v.Staged {
		head = stagedStyle.Render("* ") + head
	}

	elapsed := v.Elapsed.Round(time.Second)
	line := fmt.Sprintf("%s  %s, %d item(s)", head, elapsed, len(v.Order.Items))
	if v.RecentlyModified {
		line += "  (changed)"
	}
	return line
}

// Commands

func fetchStations(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		stations, err := client.GetStations()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching stations: %v", err)}
		}

		items := []list.Item{item{title: "Expo", desc: "All stations", id: ""}}
		for _, st := range stations {
			items = append(items, item{title: st.Name, desc: "Station view", id: st.ID})
		}
		return stationsMsg{items: items}
	}
}

func fetchColumns(client *ApiClient, station string) tea.Cmd {
	return func() tea.Msg {
		cols, err := client.GetColumns(station)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching board: %v", err)}
		}
		batches, err := client.GetBatches(station)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching batches: %v", err)}
		}
		return columnsMsg{cols: cols, batches: batches}
	}
}

func fetchCompleted(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		completed, err := client.GetCompleted()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching completed orders: %v", err)}
		}

		items := make([]list.Item, len(completed))
		for i, entry := range completed {
			items[i] = item{
				title: fmt.Sprintf("#%s %s", entry.Order.OrderNumber, entry.Order.DisplayLabel()),
				desc:  fmt.Sprintf("Bumped %s", entry.BumpedAt.Format(time.Kitchen)),
				id:    entry.Order.ID,
			}
		}
		return completedMsg{items: items}
	}
}

// advanceOrder moves the viewing station one step forward. On the expo view
// the first non-ready station advances.
func advanceOrder(client *ApiClient, station string, v *kds.OrderView) tea.Cmd {
	return func() tea.Msg {
		target := station
		if target == "" {
			for st, s := range v.Order.StationStatuses {
				if s != models.StatusReady {
					target = st
					break
				}
			}
			if target == "" {
				// Everything ready: bump through any station.
				for st := range v.Order.StationStatuses {
					target = st
					break
				}
			}
		}

		var next models.StationStatus
		switch v.Order.StationStatuses[target] {
		case models.StatusPending:
			next = models.StatusPreparing
		case models.StatusPreparing:
			next = models.StatusReady
		default:
			next = models.StatusReady // second tap on ready bumps
		}

		if err := client.AdvanceStation(v.Order.ID, target, next); err != nil {
			return errorMsg{err: fmt.Sprintf("Error advancing order: %v", err)}
		}
		return confirmMsg{}
	}
}

func recallOrder(client *ApiClient, orderID string) tea.Cmd {
	return func() tea.Msg {
		if err := client.Recall(orderID); err != nil {
			return errorMsg{err: fmt.Sprintf("Error recalling order: %v", err)}
		}
		return confirmMsg{}
	}
}

func snoozeOrder(client *ApiClient, orderID string) tea.Cmd {
	return func() tea.Msg {
		if err := client.Snooze(orderID, 5); err != nil {
			return errorMsg{err: fmt.Sprintf("Error snoozing order: %v", err)}
		}
		return confirmMsg{}
	}
}

func scheduleTick() tea.Cmd {
	return tea.Tick(refreshEvery, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v", err)
		os.Exit(1)
	}
}
