package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"travelchat/internal/chat"
	"travelchat/internal/render"
	"travelchat/internal/search"
)

const (
	defaultChatWidth  = 80
	defaultChatHeight = 24
	// chromeHeight is the rows taken by the title, status, prompt and help.
	chromeHeight = 5
	// ErrorPrefix starts the bot bubble shown for a failed query.
	ErrorPrefix  = "Sorry, something went wrong: "
	historyLimit = 50
)

// Searcher answers chat queries. search.Service and search.RemoteClient
// both satisfy it.
type Searcher interface {
	Search(ctx context.Context, req search.Request) (chat.Message, error)
}

// SessionStore is implemented by searchers that keep session history.
type SessionStore interface {
	Recent(ctx context.Context, sessionID string, n int64) ([]chat.Message, error)
	Clear(ctx context.Context, sessionID string) error
}

// ChatView is the conversation screen: a scrollable transcript of rendered
// bubbles above a prompt.
type ChatView struct {
	Messages []chat.Message
	Pending  bool

	searcher  Searcher
	renderer  render.Renderer
	sessionID string
	timeout   time.Duration
	logger    *zap.Logger

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	help     help.Model
	keys     chatKeyMap

	// rendered caches each message's bubble at the current width.
	rendered []string
	width    int
	height   int
}

var _ View = (*ChatView)(nil)

// ChatOptions configures a ChatView.
type ChatOptions struct {
	Renderer  render.Renderer
	SessionID string
	Timeout   time.Duration
	Logger    *zap.Logger
}

func NewChatView(s Searcher, opts ChatOptions) *ChatView {
	ti := textinput.New()
	ti.Placeholder = "Ask about a destination or search flights…"
	ti.Prompt = "› "
	ti.CharLimit = 500
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHighlight))

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	v := &ChatView{
		searcher:  s,
		renderer:  opts.Renderer,
		sessionID: opts.SessionID,
		timeout:   timeout,
		logger:    log,
		viewport:  viewport.New(defaultChatWidth, defaultChatHeight-chromeHeight),
		input:     ti,
		spinner:   sp,
		help:      newHelpModel(),
		keys:      newChatKeyMap(),
	}
	v.SetSize(defaultChatWidth, defaultChatHeight)
	return v
}

// Init implements View.
func (v *ChatView) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, v.loadHistory())
}

// SetSize resizes the view and re-renders the transcript at the new width.
func (v *ChatView) SetSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	v.width, v.height = width, height
	v.viewport.Width = width
	v.viewport.Height = max(1, height-chromeHeight)
	v.input.Width = max(10, width-lipgloss.Width(v.input.Prompt)-1)
	v.help.Width = width
	v.rendered = nil
	v.refresh(v.viewport.AtBottom())
}

// Update implements View.
func (v *ChatView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetSize(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Submit):
			return v, v.submit()
		case key.Matches(msg, v.keys.Cancel):
			v.input.Reset()
			return v, nil
		case key.Matches(msg, v.keys.PageUp):
			v.viewport.PageUp()
			return v, nil
		case key.Matches(msg, v.keys.PageDown):
			v.viewport.PageDown()
			return v, nil
		case key.Matches(msg, v.keys.Clear):
			return v, func() tea.Msg { return ShowClearConfirmMsg{} }
		}

	case ReplyMsg:
		v.Pending = false
		v.append(msg.Message)
		return v, nil

	case ErrorMsg:
		v.Pending = false
		v.logger.Error("query failed", zap.String("query", msg.Query), zap.Error(msg.Err))
		v.append(chat.NewTextReply(ErrorPrefix + msg.Err.Error()))
		return v, nil

	case HistoryMsg:
		if msg.Err != nil {
			v.logger.Warn("loading history failed", zap.Error(msg.Err))
			return v, nil
		}
		if len(msg.Messages) > 0 {
			v.Messages = append(append([]chat.Message{}, msg.Messages...), v.Messages...)
			v.rendered = nil
			v.refresh(true)
		}
		return v, nil

	case ClearConversationMsg:
		v.Messages = nil
		v.rendered = nil
		v.refresh(true)
		return v, v.clearSession()

	case ClearedMsg:
		if msg.Err != nil {
			v.logger.Warn("clearing session failed", zap.Error(msg.Err))
		}
		return v, nil

	case spinner.TickMsg:
		if !v.Pending {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit sends the prompt text as a query. Blank input and input typed
// while a query is in flight are ignored.
func (v *ChatView) submit() tea.Cmd {
	query := strings.TrimSpace(v.input.Value())
	if query == "" || v.Pending {
		return nil
	}
	v.input.Reset()
	v.Pending = true
	v.append(chat.NewUserMessage(query))
	return tea.Batch(v.spinner.Tick, v.search(query))
}

func (v *ChatView) search(query string) tea.Cmd {
	s, sessionID, timeout := v.searcher, v.sessionID, v.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		m, err := s.Search(ctx, search.Request{Query: query, SessionID: sessionID})
		if err != nil {
			return ErrorMsg{Query: query, Err: err}
		}
		return ReplyMsg{Query: query, Message: m}
	}
}

func (v *ChatView) loadHistory() tea.Cmd {
	store, ok := v.searcher.(SessionStore)
	if !ok || v.sessionID == "" {
		return nil
	}
	sessionID, timeout := v.sessionID, v.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		msgs, err := store.Recent(ctx, sessionID, historyLimit)
		return HistoryMsg{Messages: msgs, Err: err}
	}
}

func (v *ChatView) clearSession() tea.Cmd {
	store, ok := v.searcher.(SessionStore)
	if !ok || v.sessionID == "" {
		return nil
	}
	sessionID, timeout := v.sessionID, v.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return ClearedMsg{Err: store.Clear(ctx, sessionID)}
	}
}

func (v *ChatView) append(m chat.Message) {
	v.Messages = append(v.Messages, m)
	v.refresh(true)
}

// refresh renders any messages not yet in the cache and rebuilds the
// viewport content, following the bottom when asked.
func (v *ChatView) refresh(follow bool) {
	for i := len(v.rendered); i < len(v.Messages); i++ {
		v.rendered = append(v.rendered, RenderNode(v.renderer.MessageBubble(v.Messages[i]), v.width))
	}
	if len(v.rendered) == 0 {
		v.viewport.SetContent(Styles.Hint.Render(`Try "Tell me about Goa" or "Flights from Delhi to Ahmedabad on 5 March 2025".`))
		return
	}
	v.viewport.SetContent(strings.Join(v.rendered, "\n"))
	if follow {
		v.viewport.GotoBottom()
	}
}

// View implements View.
func (v *ChatView) View() string {
	var b strings.Builder
	title := Styles.Title.Render("✈ travelchat")
	if v.sessionID != "" {
		title += " " + Styles.Hint.Render("session "+v.sessionID)
	}
	b.WriteString(title + "\n")
	b.WriteString(v.viewport.View() + "\n")
	if v.Pending {
		b.WriteString(v.spinner.View() + Styles.Status.Render(" Searching…"))
	}
	b.WriteString("\n")
	b.WriteString(v.input.View() + "\n")
	b.WriteString(v.help.View(v.keys))
	return b.String()
}
