package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/liamwears/moviecards/internal/cards"
	"github.com/liamwears/moviecards/internal/controller"
	"github.com/liamwears/moviecards/internal/models"
)

// focus is the part of the screen receiving keys outside the history dialog.
type focus int

const (
	focusPrompt focus = iota
	focusCards
)

// historyEntry adapts a history item to the list component.
type historyEntry struct {
	item models.HistoryItem
}

func (e historyEntry) Title() string       { return e.item.Query }
func (e historyEntry) Description() string { return cards.HistoryMeta(e.item) }
func (e historyEntry) FilterValue() string { return e.item.Query }

// App is the root Bubble Tea model.
// All view state lives in the controller; App only keeps what is local to the
// terminal: focus, cursors and which face each card shows.
type App struct {
	ctx  context.Context
	ctrl *controller.Controller

	input   textinput.Model
	spinner spinner.Model
	history list.Model

	cards  []cards.Card
	cursor int
	focus  focus
	width  int
	height int
}

// NewApp creates an App driving ctrl. ctx bounds every backend call.
func NewApp(ctx context.Context, ctrl *controller.Controller) App {
	ti := textinput.New()
	ti.Placeholder = "例如：推荐一部治愈系的日本动画电影..."
	ti.Prompt = "🔍 "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	ti.CharLimit = 200
	ti.Width = 60
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	h := list.New(nil, list.NewDefaultDelegate(), 60, 16)
	h.Title = "📜 推荐历史"
	h.SetShowStatusBar(false)
	h.SetFilteringEnabled(false)
	h.SetShowHelp(false)
	h.DisableQuitKeybindings()

	return App{
		ctx:     ctx,
		ctrl:    ctrl,
		input:   ti,
		spinner: s,
		history: h,
		focus:   focusPrompt,
	}
}

// Init starts the cursor blinking.
func (a App) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.ctrl.Snapshot().ShowHistory {
			return a.handleHistoryKey(msg)
		}
		if a.focus == focusCards {
			return a.handleCardsKey(msg)
		}
		return a.handlePromptKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = max(20, msg.Width-12)
		a.history.SetSize(max(30, msg.Width-10), max(6, msg.Height-8))
		return a, nil

	case RecommendationsLoaded:
		if a.ctrl.CompleteSubmit(msg.Ticket, msg.Result, msg.Err) {
			a.syncCards()
		}
		return a, nil

	case HistoryLoaded:
		if a.ctrl.CompleteHistory(msg.Ticket, msg.Items, msg.Err) && a.ctrl.Snapshot().ShowHistory {
			entries := make([]list.Item, len(msg.Items))
			for i, item := range msg.Items {
				entries[i] = historyEntry{item: item}
			}
			cmd := a.history.SetItems(entries)
			a.history.Select(0)
			return a, cmd
		}
		return a, nil

	case spinner.TickMsg:
		if !a.ctrl.Snapshot().Loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	if a.focus == focusPrompt {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		t, ok := a.ctrl.BeginSubmit(a.input.Value())
		if !ok {
			return a, nil
		}
		a.syncCards()
		return a, tea.Batch(a.spinner.Tick, a.fetchRecommendations(t))

	case "tab":
		a.focus = focusCards
		a.input.Blur()
		return a, nil
	}

	// The prompt is frozen while a request is outstanding.
	if a.ctrl.Snapshot().Loading {
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	a.ctrl.SetPrompt(a.input.Value())
	return a, cmd
}

func (a App) handleCardsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit

	case "tab", "esc":
		a.focus = focusPrompt
		return a, a.input.Focus()

	case "left":
		if a.cursor > 0 {
			a.cursor--
		}

	case "right":
		if a.cursor < len(a.cards)-1 {
			a.cursor++
		}

	case " ", "enter":
		if a.cursor < len(a.cards) {
			a.cards[a.cursor].Flip()
		}

	case "h":
		t := a.ctrl.BeginHistory()
		return a, a.fetchHistory(t)
	}

	return a, nil
}

func (a App) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		a.ctrl.CloseHistory()
		return a, nil

	case "enter":
		entry, ok := a.history.SelectedItem().(historyEntry)
		if !ok {
			return a, nil
		}
		a.ctrl.SelectHistory(entry.item)
		a.input.SetValue(entry.item.Query)
		a.syncCards()
		return a, nil
	}

	var cmd tea.Cmd
	a.history, cmd = a.history.Update(msg)
	return a, cmd
}

// syncCards rebuilds the card views from the controller's results.
// Cards start face up and the cursor returns to the first card.
func (a *App) syncCards() {
	a.cards = cards.FromMovies(a.ctrl.Snapshot().Movies)
	a.cursor = 0
}

func (a App) fetchRecommendations(t controller.Ticket) tea.Cmd {
	ctx, ctrl := a.ctx, a.ctrl
	return func() tea.Msg {
		result, err := ctrl.FetchRecommendations(ctx, t)
		return RecommendationsLoaded{Ticket: t, Result: result, Err: err}
	}
}

func (a App) fetchHistory(t controller.HistoryTicket) tea.Cmd {
	ctx, ctrl := a.ctx, a.ctrl
	return func() tea.Msg {
		items, err := ctrl.FetchHistory(ctx)
		return HistoryLoaded{Ticket: t, Items: items, Err: err}
	}
}

// View renders the UI.
func (a App) View() string {
	state := a.ctrl.Snapshot()

	var b strings.Builder
	b.WriteString(HeaderStyle.Render("🎬 LLM 电影推荐卡片"))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("告诉我你想看什么类型的电影，AI 为你智能推荐"))
	b.WriteString("\n")

	inputStyle := InputStyle
	if a.focus == focusPrompt && !state.ShowHistory {
		inputStyle = FocusedInputStyle
	}
	line := inputStyle.Render(a.input.View())
	if state.Loading {
		line = lipgloss.JoinHorizontal(lipgloss.Center, line, " "+a.spinner.View()+" 推荐中...")
	}
	b.WriteString(line)
	b.WriteString("\n")

	switch {
	case state.ShowHistory:
		b.WriteString(a.renderHistory(state))
	case state.Error != "":
		b.WriteString(ErrorStyle.Render(state.Error))
	case len(a.cards) > 0:
		b.WriteString(RenderCards(a.cards, a.cursor, a.focus == focusCards, a.width))
	case !state.Loading:
		b.WriteString(HintStyle.Render("🍿 输入你的观影需求，开始探索精彩电影吧！"))
	}
	b.WriteString("\n")

	b.WriteString(a.renderStatusBar(state))
	return b.String()
}

func (a App) renderHistory(state controller.ViewState) string {
	if len(state.History) == 0 {
		return DialogStyle.Render("📜 推荐历史\n\n" + MutedText.Render("暂无历史记录"))
	}
	return DialogStyle.Render(a.history.View())
}

func (a App) renderStatusBar(state controller.ViewState) string {
	var hints []string
	switch {
	case state.ShowHistory:
		hints = []string{"↑/↓ 选择", "enter 查看", "esc 关闭"}
	case a.focus == focusCards:
		hints = []string{"←/→ 移动", "space 翻转", "h 📜 查看历史记录", "tab 输入", "q 退出"}
	default:
		hints = []string{"enter 获取推荐", "tab 卡片", "ctrl+c 退出"}
	}

	parts := make([]string, len(hints))
	for i, h := range hints {
		key, label, _ := strings.Cut(h, " ")
		parts[i] = StatusBarKey.Render(key) + " " + label
	}

	bar := StatusBar
	if a.width > 0 {
		bar = bar.Width(a.width)
	}
	return bar.Render(strings.Join(parts, "  "))
}

// Cards returns the current card views (for testing).
func (a App) Cards() []cards.Card {
	return a.cards
}

// Cursor returns the focused card index (for testing).
func (a App) Cursor() int {
	return a.cursor
}
