package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/mkurosawa/mystery-engine/internal/handlers"
	"github.com/mkurosawa/mystery-engine/pkg/chat"
	"github.com/mkurosawa/mystery-engine/pkg/state"
)

const PlaceHolderText = "Ask your question here..."

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	gameState    *state.GameState
	view         *handlers.ScenarioView
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool

	// Interrogation state
	activeSuspect int // index into view.Characters

	// Cooldown clock state, refreshed once a second from the API
	coolingDown      bool
	remainingSeconds int
	elapsedSeconds   int

	// Scenario selection state
	showScenarioModal bool
	scenarios         []string
	scenarioMap       map[string]string
	selectedScenario  int
	loadingScenarios  bool
	masterMode        bool

	// Accusation state
	showAccuseModal bool
	accuseSelection int
	ending          *handlers.AccuseResponse

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int

	// One-line status notice shown in the meta panel
	notice string
}

type scenariosLoadedMsg struct {
	scenarios   []string
	scenarioMap map[string]string
	err         error
}

type sessionCreatedMsg struct {
	gameState *state.GameState
	view      *handlers.ScenarioView
	err       error
}

type chatResponseMsg struct {
	response *chat.ChatResponse
	err      error
}

type sessionMsg struct {
	gameState *state.GameState
	err       error
}

type exploreMsg struct {
	response *handlers.ExploreResponse
	err      error
}

type clockMsg struct {
	response *handlers.ClockResponse
	err      error
}

type accuseResultMsg struct {
	response *handlers.AccuseResponse
	err      error
}

type progressTickMsg struct{}

type clockTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
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

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	suspectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")). // violet
			Italic(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	separatorStyle = lipgloss.NewStyle().
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

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:            cfg,
		client:            client,
		textarea:          ta,
		chatViewport:      chatVp,
		metaViewport:      metaVp,
		ready:             false,
		showScenarioModal: true,
		loadingScenarios:  true,
		selectedScenario:  0,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return m.loadScenarios()
}

func (m ConsoleUI) activeCharacter() *handlers.CharacterView {
	if m.view == nil || len(m.view.Characters) == 0 {
		return nil
	}
	if m.activeSuspect < 0 || m.activeSuspect >= len(m.view.Characters) {
		return nil
	}
	return &m.view.Characters[m.activeSuspect]
}

func (m ConsoleUI) evidenceName(id string) string {
	for _, ev := range m.view.Evidences {
		if ev.ID == id {
			return ev.Name
		}
	}
	return id
}

// writeChatContent rebuilds the transcript of the active suspect for
// the current viewport width.
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6

	var content strings.Builder
	content.WriteString(titleStyle.Render(strings.ToUpper(m.view.Case.Title)) + "\n\n")
	content.WriteString(wordwrap.String(m.view.Case.Outline, chatWidth) + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(chatWidth-6, 1))) + "\n\n")

	c := m.activeCharacter()
	if c == nil {
		m.chatViewport.SetContent(content.String())
		return
	}

	content.WriteString(speakerStyle.Render("Interrogating: "+c.Name) + promptStyle.Render(" ("+c.Role+")") + "\n\n")

	for _, turn := range m.gameState.History[c.ID] {
		switch turn.Role {
		case chat.ChatRoleUser:
			content.WriteString(userStyle.Render("You: ") + wordwrap.String(turn.Text, chatWidth-6) + "\n\n")
		case chat.ChatRoleModel:
			content.WriteString(speakerStyle.Render(c.Name+": ") + wordwrap.String(turn.Spoken, chatWidth-6) + "\n")
			if turn.Hint != "" && m.gameState.Difficulty == state.DifficultyMaster {
				content.WriteString(hintStyle.Render("(inner voice) "+wordwrap.String(turn.Hint, chatWidth-16)) + "\n")
			}
			content.WriteString("\n")
		case chat.ChatRoleSystem:
			content.WriteString(noticeStyle.Render("★ "+turn.Text) + "\n\n")
		}
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m *ConsoleUI) writeMetadata() {
	var content strings.Builder
	content.WriteString(titleStyle.Render("CASE BOARD") + "\n\n")

	content.WriteString("Session:\n")
	content.WriteString(m.gameState.ID.String()[:8] + "... (/copy)\n\n")

	content.WriteString("Difficulty:\n")
	content.WriteString(m.gameState.Difficulty + "\n\n")

	content.WriteString("Suspects:\n")
	for i, c := range m.view.Characters {
		marker := "  "
		if i == m.activeSuspect {
			marker = "▶ "
		}
		content.WriteString(fmt.Sprintf("%s%d. %s\n", marker, i+1, c.Name))
	}
	content.WriteString("\n")

	content.WriteString("Evidence:\n")
	if len(m.gameState.Evidences) == 0 {
		content.WriteString("(none yet)\n")
	} else {
		for _, id := range m.gameState.Evidences {
			content.WriteString("• " + m.evidenceName(id) + "\n")
		}
	}
	content.WriteString("\n")

	content.WriteString("Locations:\n")
	for _, loc := range m.view.Locations {
		visited := " "
		for _, v := range m.gameState.VisitedLocations {
			if v == loc.ID {
				visited = "✓"
			}
		}
		content.WriteString(fmt.Sprintf("%s %d. %s\n", visited, loc.ID, loc.Name))
	}
	if m.coolingDown {
		content.WriteString(noticeStyle.Render("Cooldown: "+formatClock(m.remainingSeconds)) + "\n")
	}
	content.WriteString("\n")

	content.WriteString("Time: " + formatClock(m.elapsedSeconds) + "\n\n")

	if m.notice != "" {
		content.WriteString(noticeStyle.Render(m.notice) + "\n\n")
	}

	content.WriteString("Commands:\n")
	content.WriteString("• Tab: Next suspect\n")
	content.WriteString("• /talk <n>: Suspect n\n")
	content.WriteString("• /explore <n>: Location\n")
	content.WriteString("• /accuse: Endgame\n")
	content.WriteString("• /copy: Session ID\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• Ctrl+C: Quit\n")

	m.metaViewport.SetContent(content.String())
}

func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func (m *ConsoleUI) resize() {
	chatWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - chatWidth - 6

	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(chatWidth - 4)
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showScenarioModal {
		return m.updateScenarioModal(msg)
	}
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}
	if m.ending != nil {
		return m.updateEndingScreen(msg)
	}
	if m.showAccuseModal {
		return m.updateAccuseModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		return m, vpCmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.writeChatContent()
		m.writeMetadata()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyTab:
			if len(m.view.Characters) > 0 {
				m.activeSuspect = (m.activeSuspect + 1) % len(m.view.Characters)
				m.writeChatContent()
				m.writeMetadata()
			}
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			c := m.activeCharacter()
			if c == nil {
				return m, nil
			}

			m.textarea.Reset()
			m.loading = true
			m.progressTick = 0
			m.notice = ""

			// Echo the question immediately; the server appends it to
			// the durable record as part of the turn.
			m.gameState.History[c.ID] = append(m.gameState.History[c.ID], chat.NewUserTurn(input))
			m.writeChatContent()

			return m, tea.Batch(m.sendChatMessage(c.ID, input), progressTick())
		}

	case chatResponseMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.writeChatContent()
			currentContent := m.chatViewport.View()
			errorMsg := errorStyle.Render("Error: "+msg.err.Error()) + "\n\n"
			m.chatViewport.SetContent(currentContent + errorMsg)
			m.chatViewport.GotoBottom()
			return m, m.refreshSession()
		}
		for _, id := range msg.response.Unlocked {
			m.notice = "New evidence: " + m.evidenceName(id)
		}
		// The authoritative transcript lives on the server.
		return m, m.refreshSession()

	case sessionMsg:
		if msg.err == nil && msg.gameState != nil {
			m.gameState = msg.gameState
			m.writeChatContent()
			m.writeMetadata()
		}

	case exploreMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
		} else {
			m.coolingDown = msg.response.CoolingDown
			m.remainingSeconds = msg.response.CooldownSeconds
			m.notice = "Opened " + msg.response.Name + ": " + msg.response.Asset
		}
		m.writeMetadata()
		return m, m.refreshSession()

	case clockTickMsg:
		return m, m.pollClock()

	case clockMsg:
		if msg.err == nil {
			wasCooling := m.coolingDown
			m.coolingDown = msg.response.CoolingDown
			m.remainingSeconds = msg.response.RemainingSeconds
			m.elapsedSeconds = msg.response.ElapsedSeconds
			if wasCooling && !m.coolingDown {
				m.notice = "You can explore a new location."
			}
			m.writeMetadata()
		}
		return m, clockTick()

	case accuseResultMsg:
		m.loading = false
		if msg.err != nil {
			m.notice = msg.err.Error()
			m.writeMetadata()
		} else {
			m.ending = msg.response
		}
		return m, nil

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(strings.TrimSpace(input))
	cmd := strings.ToLower(fields[0])
	m.textarea.Reset()

	switch cmd {
	case "/help":
		helpText := `
Commands:
• /talk <n> - Interrogate suspect n
• /explore <n> - Open location n (10 min cooldown between new ones)
• /accuse - Name the culprit and end the game
• /copy - Copy the session ID to the clipboard
• Tab - Cycle suspects
• Ctrl+C - Quit

How to play:
• Question the suspects; the right topic unlocks evidence
• Explore locations for documents and photographs
• When you are sure, accuse
`
		currentContent := m.chatViewport.View()
		m.chatViewport.SetContent(currentContent + titleStyle.Render("Help:") + helpText + "\n")
		m.chatViewport.GotoBottom()

	case "/talk":
		if len(fields) < 2 {
			m.notice = "Usage: /talk <number>"
			m.writeMetadata()
			return m, nil
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 || n > len(m.view.Characters) {
			m.notice = "No such suspect."
			m.writeMetadata()
			return m, nil
		}
		m.activeSuspect = n - 1
		m.writeChatContent()
		m.writeMetadata()

	case "/explore":
		if len(fields) < 2 {
			m.notice = "Usage: /explore <location id>"
			m.writeMetadata()
			return m, nil
		}
		id, err := strconv.Atoi(fields[1])
		if err != nil {
			m.notice = "No such location."
			m.writeMetadata()
			return m, nil
		}
		return m, m.exploreLocation(id)

	case "/accuse":
		m.showAccuseModal = true
		m.accuseSelection = 0
		return m, nil

	case "/copy":
		if err := clipboard.WriteAll(m.gameState.ID.String()); err != nil {
			m.notice = "Clipboard unavailable."
		} else {
			m.notice = "Session ID copied."
		}
		m.writeMetadata()

	default:
		m.notice = "Unknown command. Try /help."
		m.writeMetadata()
	}

	return m, nil
}

func (m ConsoleUI) sendChatMessage(characterID, message string) tea.Cmd {
	return func() tea.Msg {
		resp, err := sendChat(m.client, m.config.APIBaseURL, m.gameState.ID, characterID, message)
		return chatResponseMsg{resp, err}
	}
}

func (m ConsoleUI) refreshSession() tea.Cmd {
	return func() tea.Msg {
		gs, err := getSession(m.client, m.config.APIBaseURL, m.gameState.ID)
		return sessionMsg{gs, err}
	}
}

func (m ConsoleUI) pollClock() tea.Cmd {
	return func() tea.Msg {
		resp, err := tickClock(m.client, m.config.APIBaseURL, m.gameState.ID)
		return clockMsg{resp, err}
	}
}

func (m ConsoleUI) exploreLocation(id int) tea.Cmd {
	return func() tea.Msg {
		resp, err := explore(m.client, m.config.APIBaseURL, m.gameState.ID, id)
		return exploreMsg{resp, err}
	}
}

func (m ConsoleUI) loadScenarios() tea.Cmd {
	return func() tea.Msg {
		orderedNames, scenarioMap, err := listScenarios(m.client, m.config.APIBaseURL)
		return scenariosLoadedMsg{orderedNames, scenarioMap, err}
	}
}

func (m ConsoleUI) createSessionFromScenario(scenarioFile string) tea.Cmd {
	difficulty := state.DifficultyDetective
	if m.masterMode {
		difficulty = state.DifficultyMaster
	}
	return func() tea.Msg {
		gs, err := createSession(m.client, m.config.APIBaseURL, scenarioFile, difficulty)
		if err != nil {
			return sessionCreatedMsg{nil, nil, err}
		}
		view, err := getScenarioView(m.client, m.config.APIBaseURL, scenarioFile)
		if err != nil {
			return sessionCreatedMsg{nil, nil, err}
		}
		return sessionCreatedMsg{gs, view, nil}
	}
}

func (m ConsoleUI) accuseSuspect(characterID string) tea.Cmd {
	return func() tea.Msg {
		resp, err := accuse(m.client, m.config.APIBaseURL, m.gameState.ID, characterID)
		return accuseResultMsg{resp, err}
	}
}

func (m ConsoleUI) updateScenarioModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case scenariosLoadedMsg:
		m.loadingScenarios = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.scenarios = msg.scenarios
			m.scenarioMap = msg.scenarioMap
		}

	case sessionCreatedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.gameState = msg.gameState
			m.view = msg.view
			m.activeSuspect = 0
			m.showScenarioModal = false
			if m.width > 0 && m.height > 0 {
				m.resize()
			}
			m.writeChatContent()
			m.writeMetadata()
			m.textarea.Focus()
			m.ready = true
			return m, tea.Batch(textarea.Blink, clockTick())
		}
		return m, nil

	case tea.KeyMsg:
		if m.loadingScenarios || m.err != nil {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.selectedScenario > 0 {
				m.selectedScenario--
			}
		case tea.KeyDown:
			if m.selectedScenario < len(m.scenarios)-1 {
				m.selectedScenario++
			}
		case tea.KeyEnter:
			if len(m.scenarios) > 0 {
				scenarioName := m.scenarios[m.selectedScenario]
				scenarioFile := m.scenarioMap[scenarioName]
				m.loading = true
				return m, m.createSessionFromScenario(scenarioFile)
			}
		default:
			if msg.String() == "m" {
				m.masterMode = !m.masterMode
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) updateAccuseModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showAccuseModal = false
			m.textarea.Focus()
			return m, textarea.Blink
		case tea.KeyUp:
			if m.accuseSelection > 0 {
				m.accuseSelection--
			}
		case tea.KeyDown:
			if m.accuseSelection < len(m.view.Characters)-1 {
				m.accuseSelection++
			}
		case tea.KeyEnter:
			c := m.view.Characters[m.accuseSelection]
			m.showAccuseModal = false
			m.loading = true
			return m, m.accuseSuspect(c.ID)
		}
	}

	return m, nil
}

func (m ConsoleUI) updateEndingScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "n":
			// Back to scenario selection for another round.
			m.ending = nil
			m.showScenarioModal = true
			m.loadingScenarios = true
			m.gameState = nil
			m.view = nil
			return m, m.loadScenarios()
		}
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEnter:
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

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Investigation?"))
	content.WriteString("\n\n")
	content.WriteString("Your progress is saved on the server.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderScenarioModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	if m.loadingScenarios {
		content.WriteString(modalTitleStyle.Render("Loading Cases..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Fetching available cases..."))
	} else if m.err != nil {
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("Failed to load cases: %v", m.err)))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	} else if m.loading {
		content.WriteString(modalTitleStyle.Render("Opening Case..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Preparing the investigation..."))
	} else {
		content.WriteString(modalTitleStyle.Render("Select a Case"))
		content.WriteString("\n\n")

		for i, name := range m.scenarios {
			if i == m.selectedScenario {
				content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", name)))
			} else {
				content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", name)))
			}
			content.WriteString("\n")
		}

		content.WriteString("\n")
		mode := "detective (no hints)"
		if m.masterMode {
			mode = "master (inner voice hints)"
		}
		content.WriteString(promptStyle.Render("Mode: ") + noticeStyle.Render(mode) + "\n\n")
		content.WriteString(promptStyle.Render("↑/↓ navigate · Enter select · M toggle mode · Ctrl+C exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderAccuseModal() string {
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Who is the culprit?"))
	content.WriteString("\n\n")
	content.WriteString("An accusation ends the investigation.\n\n")

	for i, c := range m.view.Characters {
		line := fmt.Sprintf("%s (%s)", c.Name, c.Role)
		if i == m.accuseSelection {
			content.WriteString(modalSelectedItemStyle.Render("▶ " + line))
		} else {
			content.WriteString(modalItemStyle.Render("  " + line))
		}
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(promptStyle.Render("↑/↓ navigate · Enter accuse · Esc back"))

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderEndingScreen() string {
	var content strings.Builder

	if m.ending.IsCorrect {
		content.WriteString(titleStyle.Render(m.ending.Title))
	} else {
		content.WriteString(errorStyle.Render(m.ending.Title))
	}
	content.WriteString("\n\n")
	content.WriteString("You accused " + speakerStyle.Render(m.ending.Accused) + ".\n\n")
	if m.ending.Text != "" {
		content.WriteString(wordwrap.String(m.ending.Text, 54) + "\n\n")
	}
	if m.ending.Truth != "" {
		content.WriteString(noticeStyle.Render("The truth:") + "\n")
		content.WriteString(wordwrap.String(m.ending.Truth, 54) + "\n\n")
	}
	content.WriteString(promptStyle.Render("Press N for a new case, Q to quit"))

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showScenarioModal {
		return m.renderScenarioModal()
	}
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if m.ending != nil {
		return m.renderEndingScreen()
	}
	if m.showAccuseModal {
		return m.renderAccuseModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-4, 1))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30
	}
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick animates the loading bar.
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}

// clockTick drives the once-a-second cooldown poll.
func clockTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return clockTickMsg{}
	})
}
