package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AppModel is the root model: the chat screen plus any open modals.
type AppModel struct {
	Chat     *ChatView
	Overlays OverlayStack

	width, height int
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// NewAppModel wraps a chat view in a tea.Model.
func NewAppModel(chat *ChatView) tea.Model {
	return &appModelAdapter{AppModel: &AppModel{Chat: chat}}
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return a.Chat.Init()
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.Chat.SetSize(msg.Width, msg.Height)
		return a, nil
	case ShowClearConfirmMsg:
		a.Overlays.Push(NewClearConfirmModal(a.Chat.sessionID))
		return a, nil
	case DismissModalMsg:
		a.Overlays.Pop()
		return a, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if cmd, ok := a.Overlays.UpdateTop(msg); ok {
			return a, cmd
		}
	}

	v, cmd := a.Chat.Update(msg)
	if c, ok := v.(*ChatView); ok {
		a.Chat = c
	}
	return a, cmd
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	base := a.Chat.View()
	top, ok := a.Overlays.Peek()
	if !ok {
		return base
	}
	if a.width == 0 || a.height == 0 {
		return base + "\n" + top.View()
	}
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, top.View())
}
