package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/simbench/microsim/pkg/games"
	"github.com/simbench/microsim/pkg/sim"
)

const PlaceHolderText = "Type a command..."

// PlayUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type PlayUI struct {
	engine       *sim.Engine
	gameName     string
	seed         int64
	transcript   []turn
	gameViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	statusLine   string

	// Game picker state
	showPickerModal bool
	gameNames       []string
	selectedGame    int

	// Quit confirmation state
	showQuitModal bool
}

type turn struct {
	command     string
	observation string
	reward      int
}

var (
	gamePanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	obsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	rewardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	wonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")). // bright green
			Bold(true)

	lostStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // red
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

var titleCaser = cases.Title(language.English)

func NewPlayUI(eng *sim.Engine, gameName string, seed int64) PlayUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render("> ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	gameVp := viewport.New(50, 20)
	gameVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return PlayUI{
		engine:          eng,
		gameName:        gameName,
		seed:            seed,
		textarea:        ta,
		gameViewport:    gameVp,
		metaViewport:    metaVp,
		gameNames:       games.Names(),
		showPickerModal: eng == nil,
	}
}

func (m *PlayUI) startGame(name string) {
	game, err := games.New(name)
	if err != nil {
		// Picker entries come from the registry, so this cannot fail.
		panic(err)
	}
	m.engine = sim.NewEngine(game, m.seed)
	m.gameName = name
	m.transcript = nil
	m.showPickerModal = false
}

func (m *PlayUI) writeGameContent() {
	gameWidth := m.gameViewport.Width - 6

	var content strings.Builder
	content.WriteString(titleStyle.Render("MICROSIM") + "\n\n")
	content.WriteString(wordwrap.String("Task: "+m.engine.Game.TaskDescription(), gameWidth) + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", gameWidth-6)) + "\n\n")
	content.WriteString(obsStyle.Render(wordwrap.String(m.engine.Look(), gameWidth)) + "\n\n")

	for _, t := range m.transcript {
		content.WriteString(userStyle.Render("> "+t.command) + "\n")
		content.WriteString(wordwrap.String(t.observation, gameWidth) + "\n")
		if t.reward != 0 {
			content.WriteString(rewardStyle.Render(fmt.Sprintf("[reward %+d]", t.reward)) + "\n")
		}
		content.WriteString("\n")
	}

	if m.engine.GameOver {
		if m.engine.GameWon {
			content.WriteString(wonStyle.Render("You won!") + "\n")
		} else {
			content.WriteString(lostStyle.Render("Game over.") + "\n")
		}
	}

	m.gameViewport.SetContent(content.String())
	m.gameViewport.GotoBottom()
}

func (m *PlayUI) writeMetadata() {
	var content strings.Builder
	content.WriteString(titleStyle.Render("SESSION") + "\n\n")

	content.WriteString("Game:\n")
	content.WriteString(titleCaser.String(strings.ReplaceAll(m.gameName, "-", " ")) + "\n\n")

	content.WriteString("Session ID:\n")
	content.WriteString(m.engine.ID.String()[:8] + "...\n\n")

	content.WriteString(fmt.Sprintf("Seed: %d\n", m.seed))
	content.WriteString(fmt.Sprintf("Steps: %d\n", m.engine.NumSteps))
	content.WriteString(fmt.Sprintf("Score: %d\n\n", m.engine.Score))

	if m.engine.GameOver {
		if m.engine.GameWon {
			content.WriteString(wonStyle.Render("WON") + "\n\n")
		} else {
			content.WriteString(lostStyle.Render("OVER") + "\n\n")
		}
	}

	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Enter: Send\n")
	content.WriteString("• Ctrl+Y: Copy state\n")
	content.WriteString("• /actions: List valid\n")
	content.WriteString("• /state: Dump state\n")

	if m.statusLine != "" {
		content.WriteString("\n" + promptStyle.Render(m.statusLine) + "\n")
	}

	m.metaViewport.SetContent(content.String())
}

func (m PlayUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m PlayUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showPickerModal {
		return m.updatePickerModal(msg)
	}

	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.gameViewport, vpCmd = m.gameViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		if m.engine != nil {
			m.writeGameContent()
			m.writeMetadata()
			m.ready = true
		}

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyCtrlY:
			m.copySnapshot()
			m.writeMetadata()
			return m, nil
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.Reset()

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			result := m.engine.Step(input)
			m.transcript = append(m.transcript, turn{
				command:     input,
				observation: result.Observation,
				reward:      result.Reward,
			})
			m.statusLine = ""
			m.writeGameContent()
			m.writeMetadata()
			return m, nil
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.gameViewport, vpCmd = m.gameViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m *PlayUI) layout() {
	gameWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - gameWidth - 6

	m.gameViewport.Width = gameWidth - 2
	m.gameViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(gameWidth - 4)
}

// copySnapshot puts the full JSON world snapshot on the system clipboard, for
// pasting into prediction prompts.
func (m *PlayUI) copySnapshot() {
	snap := m.engine.Snapshot()
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		m.statusLine = "marshal failed: " + err.Error()
		return
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		m.statusLine = "clipboard unavailable: " + err.Error()
		return
	}
	m.statusLine = "Snapshot copied to clipboard."
}

func (m PlayUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "/actions":
		cmds := m.engine.Catalog.Commands()
		var text strings.Builder
		text.WriteString(titleStyle.Render("Valid actions:") + "\n")
		for _, c := range cmds {
			text.WriteString("• " + c + "\n")
		}
		text.WriteString("\n")
		currentContent := m.gameViewport.View()
		m.gameViewport.SetContent(currentContent + text.String())
		m.gameViewport.GotoBottom()

	case "/state":
		snap := m.engine.Snapshot()
		data, err := json.MarshalIndent(snap, "", "  ")
		text := titleStyle.Render("State:") + "\n"
		if err != nil {
			text += err.Error() + "\n"
		} else {
			text += string(data) + "\n"
		}
		currentContent := m.gameViewport.View()
		m.gameViewport.SetContent(currentContent + text)
		m.gameViewport.GotoBottom()
	}

	return m, nil
}

func (m PlayUI) updatePickerModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.selectedGame > 0 {
				m.selectedGame--
			}
		case tea.KeyDown:
			if m.selectedGame < len(m.gameNames)-1 {
				m.selectedGame++
			}
		case tea.KeyEnter:
			if len(m.gameNames) > 0 {
				m.startGame(m.gameNames[m.selectedGame])
				if m.width > 0 && m.height > 0 {
					m.layout()
					m.writeGameContent()
					m.writeMetadata()
					m.ready = true
				}
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m PlayUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m PlayUI) renderPickerModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Select a Game"))
	content.WriteString("\n\n")

	for i, name := range m.gameNames {
		label := titleCaser.String(strings.ReplaceAll(name, "-", " "))
		if i == m.selectedGame {
			content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", label)))
		} else {
			content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", label)))
		}
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m PlayUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to quit?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m PlayUI) View() string {
	if m.showPickerModal {
		return m.renderPickerModal()
	}

	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	gameWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - gameWidth - 6

	gamePanel := gamePanelStyle.Width(gameWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.gameViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", gameWidth-4)),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, gamePanel, metaPanel)
}
