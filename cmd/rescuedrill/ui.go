package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	orchestration "github.com/koscakluka/ema-rescue/core"
	"github.com/koscakluka/ema-rescue/core/commands"
	"github.com/koscakluka/ema-rescue/core/events"
	"github.com/koscakluka/ema-rescue/core/intent"
	"github.com/koscakluka/ema-rescue/core/outcome"
	"github.com/koscakluka/ema-rescue/core/script"
	"github.com/koscakluka/ema-rescue/core/speechtotext/typed"
)

const (
	Title           = "EARTHQUAKE RESCUE DRILL"
	PlaceHolderText = "Type what you would say..."
	energyBarWidth  = 20
)

type sceneEventMsg struct {
	event events.Event
}

type sceneStartedMsg struct {
	err error
}

type model struct {
	ctx        context.Context
	scene      *orchestration.Scene
	recognizer *typed.Recognizer

	viewport viewport.Model
	input    textinput.Model
	ready    bool
	width    int
	height   int

	lines        []string
	phase        script.Phase
	introReady   bool
	inputEnabled bool
	listening    bool
	energy       int
	showEnergy   bool
	status       script.Text
	outcome      *outcome.Outcome
	rewards      int
	leaving      bool
	err          error
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	phaseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	captionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	soundStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	learnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	outcomeStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
)

func newModel(ctx context.Context, scene *orchestration.Scene, recognizer *typed.Recognizer) model {
	ti := textinput.New()
	ti.Placeholder = PlaceHolderText
	ti.Prompt = helpStyle.Render(":: ")
	ti.CharLimit = 200
	ti.Focus()

	return model{
		ctx:        ctx,
		scene:      scene,
		recognizer: recognizer,
		viewport:   viewport.New(60, 20),
		input:      ti,
		phase:      script.PhaseIntro,
	}
}

func (m model) Init() tea.Cmd {
	scene, ctx := m.scene, m.ctx
	return tea.Batch(textinput.Blink, func() tea.Msg {
		return sceneStartedMsg{err: scene.Start(ctx)}
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 9
		m.input.Width = msg.Width - 8
		m.ready = true
		m.refresh()

	case sceneStartedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}

	case sceneEventMsg:
		if m.apply(msg.event) {
			return m, tea.Quit
		}
		m.refresh()

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			m.refresh()
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "esc":
		// Return to menu: the scene is torn down and the UI quits once it
		// reports so.
		if m.leaving {
			return tea.Quit, true
		}
		m.leaving = true
		m.err = m.scene.Send(commands.NewTeardown())
		if m.err != nil {
			return tea.Quit, true
		}
		return nil, true

	case "ctrl+l":
		m.err = m.scene.StartListening()
		return nil, true

	case "ctrl+t":
		m.err = m.scene.RequestHint()
		return nil, true

	case "ctrl+r":
		m.err = m.scene.Restart()
		return nil, true

	case "ctrl+f":
		m.finish()
		return nil, true

	case "enter":
		m.err = m.submit(strings.TrimSpace(m.input.Value()))
		m.input.Reset()
		return nil, true
	}
	return nil, false
}

// submit routes a typed line: it acknowledges the intro when empty, answers
// a pending recognition, or is classified as an utterance directly.
func (m *model) submit(text string) error {
	if text == "" {
		if m.phase == script.PhaseIntro && m.introReady {
			return m.scene.Acknowledge()
		}
		return nil
	}

	m.addLine(learnerStyle.Render("You: ") + text)
	if m.recognizer != nil && m.recognizer.Listening() {
		m.recognizer.Submit(text)
		return nil
	}
	return m.scene.SubmitUtterance(intent.TranscriptUtterance(text))
}

// finish credits the reward of the last outcome once.
func (m *model) finish() {
	if m.outcome == nil {
		return
	}
	m.rewards += m.outcome.RewardTokens
	m.addLine(titleStyle.Render(fmt.Sprintf("+%d tokens, %d in total", m.outcome.RewardTokens, m.rewards)))
	m.outcome = nil
}

// apply folds one scene event into the model. It reports whether the scene
// is gone.
func (m *model) apply(event events.Event) bool {
	switch event := event.(type) {
	case events.PhaseChanged:
		m.phase = event.To
		if event.To == script.PhaseIntro {
			m.introReady = false
			m.showEnergy = false
			m.outcome = nil
		}
		m.addLine(phaseStyle.Render("── " + strings.ToUpper(event.To.String()) + " ──"))
	case events.IntroReady:
		m.introReady = true
		m.addLine(helpStyle.Render("Press enter to continue."))
	case events.InputControlChanged:
		m.inputEnabled = event.Enabled
	case events.EnergyChanged:
		m.energy = event.Level
		m.showEnergy = true
	case events.CueIssued:
		if line, ok := describeCue(event.Cue); ok {
			m.addLine(line)
		}
	case events.StatusPosted:
		m.status = event.Text
	case events.StatusCleared:
		m.status = script.Text{}
	case events.ListeningStarted:
		m.listening = true
	case events.ListeningStopped:
		m.listening = false
	case events.UtteranceClassified:
		m.addLine(helpStyle.Render("understood as " + event.Choice.String()))
	case events.ChoiceDiscarded:
		m.addLine(helpStyle.Render(fmt.Sprintf("(%s ignored during %s)", event.Choice, event.Phase)))
	case events.OutcomeProduced:
		result := event.Outcome
		m.outcome = &result
	case events.SceneTornDown:
		return true
	}
	return false
}

func describeCue(cue script.Cue) (string, bool) {
	switch cue.Kind {
	case script.CueCaption:
		return captionStyle.Render(cue.Text.String()), true
	case script.CueSound:
		return soundStyle.Render("♪ " + cue.Target), true
	}
	return "", false
}

func (m *model) addLine(line string) {
	m.lines = append(m.lines, line)
}

func (m *model) refresh() {
	width := m.viewport.Width
	if width <= 0 {
		width = 60
	}

	var content strings.Builder
	for _, line := range m.lines {
		content.WriteString(wordwrap.String(line, width) + "\n")
	}
	m.viewport.SetContent(content.String())
	m.viewport.GotoBottom()
}

func energyBar(level int) string {
	level = max(0, min(100, level))
	filled := level * energyBarWidth / 100
	return fmt.Sprintf("⚡ [%s%s] %d%%", strings.Repeat("█", filled), strings.Repeat("░", energyBarWidth-filled), level)
}

func (m model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(Title))
	b.WriteString("  " + phaseStyle.Render(m.phase.String()))
	b.WriteString(fmt.Sprintf("  tokens: %d", m.rewards))
	if m.showEnergy {
		b.WriteString("  " + energyBar(m.energy))
	}
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View() + "\n")

	if m.outcome != nil {
		b.WriteString(outcomeStyle.Render(wordwrap.String(m.outcome.Message.English, max(20, m.width-10))) + "\n")
	}
	if !m.status.IsZero() {
		b.WriteString(statusStyle.Render(m.status.String()) + "\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n")
	}

	b.WriteString(m.input.View() + "\n")
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m model) help() string {
	keys := []string{"enter: say", "ctrl+t: hint", "ctrl+r: try again", "esc: menu"}
	if m.inputEnabled && !m.listening {
		keys = append([]string{"ctrl+l: listen"}, keys...)
	}
	if m.outcome != nil {
		keys = append(keys, "ctrl+f: finish")
	}
	return strings.Join(keys, " • ")
}
