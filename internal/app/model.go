package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mgkapitany/pdsnd-github/internal/logger"
	"github.com/mgkapitany/pdsnd-github/internal/models"
	"github.com/mgkapitany/pdsnd-github/internal/prompt"
	"github.com/mgkapitany/pdsnd-github/internal/services"
	"github.com/mgkapitany/pdsnd-github/internal/ui/components"
	"github.com/mgkapitany/pdsnd-github/internal/ui/report"
	"github.com/mgkapitany/pdsnd-github/internal/ui/styles"
)

// KeyMap defines the keybindings for the shell.
type KeyMap struct {
	Submit    key.Binding
	Interrupt key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Interrupt: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c twice", "quit")),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Interrupt}
}

// Model is the interactive shell.
type Model struct {
	services *services.Manager
	keymap   KeyMap
	state    State
	session  Session

	input   textinput.Model
	spinner components.LoadingSpinner

	// interrupted is set by a Ctrl+C and cleared by any other key.
	interrupted bool
	width       int

	transcript   []string
	eventChannel chan services.ServiceEvent
}

// NewModel initializes the shell at the city prompt.
func NewModel(mgr *services.Manager) *Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 64
	ti.Width = 32
	ti.Focus()

	return &Model{
		services: mgr,
		keymap:   DefaultKeyMap(),
		state:    StateCity,
		input:    ti,
		spinner:  components.NewSpinner("Loading..."),
	}
}

// State returns the current shell state.
func (m *Model) State() State {
	return m.state
}

// Session returns the current filter selection.
func (m *Model) Session() Session {
	return m.session
}

// Transcript returns every line printed so far.
func (m *Model) Transcript() []string {
	return m.transcript
}

// Init prints the greeting and subscribes to service events.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.print(styles.TitleStyle.Render(report.Greeting)),
		textinput.Blink,
	}
	if m.services != nil {
		cmds = append(cmds, subscribeToServicesCmd(m.services))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and advances the shell.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-2, 10)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)

	case spinner.TickMsg:
		if !m.state.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case DatasetLoadedMsg:
		return m, m.handleDatasetLoaded(msg)

	case ReportReadyMsg:
		return m, m.handleReportReady(msg)

	case RawPageMsg:
		return m, m.handleRawPage(msg)

	case ErrorMsg:
		return m, m.printError(msg)

	case SubscriptionEventMsg:
		m.eventChannel = msg.Channel
		return m, services.WaitForEvent(m.eventChannel)

	case services.ServiceEvent:
		cmd := m.handleServiceEvent(msg)
		if m.eventChannel == nil {
			return m, cmd
		}
		return m, tea.Batch(cmd, services.WaitForEvent(m.eventChannel))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keymap.Interrupt) {
		if m.interrupted {
			logger.Info("interrupted twice, quitting", "state", m.state.String())
			m.state = StateDone
			return tea.Quit
		}
		m.interrupted = true
		m.input.Reset()
		return m.print(styles.WarningTextStyle.Render(prompt.Interrupted))
	}
	m.interrupted = false

	if m.state.Busy() || m.state == StateDone {
		return nil
	}

	if key.Matches(msg, m.keymap.Submit) {
		answer := m.input.Value()
		m.input.Reset()
		return m.submit(answer)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// submit handles one line of input for the current prompt.
func (m *Model) submit(answer string) tea.Cmd {
	echo := m.promptText() + answer

	switch m.state {
	case StateRawMore, StateAnother, StateRestart:
		return m.answerYesNo(echo, prompt.IsAffirmative(answer))
	}

	v, ok := m.question().Validate(answer)
	if !ok {
		return m.print(echo, styles.ErrorTextStyle.Render(prompt.InvalidInput))
	}

	switch m.state {
	case StateCity:
		m.session.City = v
		m.state = StateConfirmCity
		return m.print(echo)

	case StateConfirmCity:
		if v != "y" {
			m.session.Reset()
			m.state = StateCity
			return m.print(echo)
		}
		m.state = StateFilterMode
		return m.print(echo, styles.SuccessTextStyle.Render(report.Confirmed))

	case StateFilterMode:
		m.state = m.session.SetMode(v)
		if m.state == StateLoading {
			return m.startLoad(echo)
		}
		return m.print(echo)

	case StateMonth:
		m.state = m.session.SetMonth(v)
		if m.state == StateLoading {
			return m.startLoad(echo)
		}
		return m.print(echo)

	case StateDay:
		m.session.Day = v
		return m.startLoad(echo)

	case StateMenu:
		return m.dispatch(echo, v)
	}

	return nil
}

func (m *Model) answerYesNo(echo string, yes bool) tea.Cmd {
	switch m.state {
	case StateRawMore:
		if yes {
			m.state = StateReport
			return tea.Batch(m.print(echo), m.busy("Fetching rows..."), rawPageCmd(m.services, m.session.RawNext))
		}
		m.state = StateAnother

	case StateAnother:
		if yes {
			m.state = StateMenu
		} else {
			m.state = StateRestart
		}

	case StateRestart:
		if yes {
			m.session.Reset()
			m.state = StateCity
			return m.print(echo, report.Separator())
		}
		m.state = StateDone
		logger.Info("session finished")
		return tea.Sequence(m.print(echo, report.Farewell()), tea.Quit)
	}
	return m.print(echo)
}

// dispatch runs the report for a menu selection.
func (m *Model) dispatch(echo, selection string) tea.Cmd {
	switch selection {
	case prompt.MenuExit:
		m.state = StateRestart
		return m.print(echo)

	case prompt.MenuRaw:
		m.state = StateReport
		m.session.RawNext = 0
		return tea.Batch(
			m.print(echo, report.RawHeading()),
			m.busy("Fetching rows..."),
			rawPageCmd(m.services, 0),
		)
	}

	m.state = StateReport
	return tea.Batch(m.print(echo), m.busy("Calculating..."), reportCmd(m.services, selection))
}

func (m *Model) startLoad(echo string) tea.Cmd {
	filter := m.session.Filter()
	m.state = StateLoading

	label := fmt.Sprintf("Loading %s data...", models.Title(filter.City))
	return tea.Batch(
		m.print(echo, filter.Describe()),
		m.busy(label),
		loadDatasetCmd(m.services, filter),
	)
}

func (m *Model) busy(label string) tea.Cmd {
	m.spinner.SetLabel(label)
	return m.spinner.Tick()
}

func (m *Model) handleDatasetLoaded(msg DatasetLoadedMsg) tea.Cmd {
	if m.state != StateLoading {
		return nil
	}
	if msg.Error != nil {
		m.state = StateRestart
		return m.printError(ErrorMsg{
			Error:   msg.Error,
			Context: fmt.Sprintf("Could not load %s data", models.Title(msg.Filter.City)),
		})
	}

	m.state = StateMenu
	return m.print(report.Summary(msg.Summary), report.Separator())
}

func (m *Model) handleReportReady(msg ReportReadyMsg) tea.Cmd {
	if m.state != StateReport {
		return nil
	}
	if msg.Error != nil {
		logger.Error("report failed", "selection", msg.Selection, "error", msg.Error)
		m.state = StateRestart
		return m.printError(ErrorMsg{Error: msg.Error, Context: "Could not compute statistics"})
	}

	m.state = StateAnother
	return m.print(msg.Text)
}

func (m *Model) handleRawPage(msg RawPageMsg) tea.Cmd {
	if m.state != StateReport {
		return nil
	}
	if msg.Error != nil {
		logger.Error("raw page failed", "offset", m.session.RawNext, "error", msg.Error)
		m.state = StateRestart
		return m.printError(ErrorMsg{Error: msg.Error, Context: "Could not read rows"})
	}

	page := msg.Page
	m.session.RawNext = page.Offset + len(page.Trips)
	if page.HasMore() {
		m.state = StateRawMore
	} else {
		m.state = StateAnother
	}
	return m.print(report.RawPage(page, m.width))
}

func (m *Model) handleServiceEvent(event services.ServiceEvent) tea.Cmd {
	switch e := event.(type) {
	case services.DataChangedEvent:
		return m.print(styles.InfoTextStyle.Render(
			fmt.Sprintf("%s changed on disk - restart to reload it.", filepath.Base(e.Path))))

	case services.ErrorEvent:
		return func() tea.Msg {
			return ErrorMsg{Error: e.Error, Context: "[" + e.Service + "]"}
		}
	}
	return nil
}

func (m *Model) printError(msg ErrorMsg) tea.Cmd {
	line := msg.Error.Error()
	if msg.Context != "" {
		line = fmt.Sprintf("%s: %v", msg.Context, msg.Error)
	}
	return m.print(styles.ErrorTextStyle.Render(line))
}

// print records lines in the transcript and prints them above the prompt
// as a single block so they keep their order.
func (m *Model) print(lines ...string) tea.Cmd {
	m.transcript = append(m.transcript, lines...)
	return tea.Println(strings.Join(lines, "\n"))
}

// question returns the closed question for the current state.
func (m *Model) question() prompt.Question {
	switch m.state {
	case StateCity:
		if m.services == nil {
			return prompt.City(nil)
		}
		return prompt.City(m.services.Cities())
	case StateConfirmCity:
		return prompt.ConfirmCity(m.session.City)
	case StateFilterMode:
		return prompt.FilterMode()
	case StateMonth:
		return prompt.Month()
	case StateDay:
		return prompt.Day()
	case StateMenu:
		return prompt.Menu()
	}
	return prompt.Question{}
}

// promptText returns the line shown before the input.
func (m *Model) promptText() string {
	switch m.state {
	case StateRawMore:
		return prompt.MoreRawData
	case StateAnother:
		return prompt.Another
	case StateRestart:
		return prompt.Restart
	}
	return m.question().Text
}

// View renders the active prompt, or the spinner while work is running.
func (m *Model) View() string {
	if m.state == StateDone {
		return ""
	}
	if m.state.Busy() {
		return m.spinner.ViewWithLabel() + "\n"
	}

	var b strings.Builder
	if m.state == StateMenu {
		b.WriteString(prompt.MenuText)
		b.WriteString("\n")
	}
	b.WriteString(styles.PromptStyle.Render(m.promptText()))
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m *Model) renderHelp() string {
	parts := make([]string, 0, 2)
	for _, binding := range m.keymap.ShortHelp() {
		parts = append(parts, binding.Help().Key+" "+binding.Help().Desc)
	}
	return styles.HelpStyle.Render(strings.Join(parts, " • "))
}
