package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmModal asks a yes/no question. Enter or y confirms; Esc or n cancels.
type ConfirmModal struct {
	Title     string
	Label     string
	OnConfirm func() tea.Msg
}

var _ View = (*ConfirmModal)(nil)

func NewConfirmModal(title, label string, onConfirm func() tea.Msg) *ConfirmModal {
	return &ConfirmModal{Title: title, Label: label, OnConfirm: onConfirm}
}

// NewClearConfirmModal confirms starting a new conversation.
func NewClearConfirmModal(sessionID string) *ConfirmModal {
	label := "The transcript will be cleared."
	if sessionID != "" {
		label = "Session " + sessionID + " will be cleared."
	}
	return NewConfirmModal("Start a new chat?", label, func() tea.Msg { return ClearConversationMsg{} })
}

// Init implements View.
func (m *ConfirmModal) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *ConfirmModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc", "n":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "enter", "y":
			if m.OnConfirm != nil {
				return m, tea.Batch(func() tea.Msg { return DismissModalMsg{} }, m.OnConfirm)
			}
			return m, func() tea.Msg { return DismissModalMsg{} }
		}
	}
	return m, nil
}

// View implements View.
func (m *ConfirmModal) View() string {
	content := Styles.ModalTitle.Render(m.Title) + "\n\n"
	content += m.Label + "\n\n"
	content += Styles.Hint.Render("y/Enter: confirm  Esc: cancel")
	return Styles.Modal.Render(content)
}

// OverlayStack holds modal views; the topmost receives input first.
type OverlayStack struct {
	Stack []View
}

func (s *OverlayStack) Push(v View) {
	s.Stack = append(s.Stack, v)
}

// Pop removes the top overlay. It reports false when the stack is empty.
func (s *OverlayStack) Pop() (View, bool) {
	if len(s.Stack) == 0 {
		return nil, false
	}
	top := s.Stack[len(s.Stack)-1]
	s.Stack = s.Stack[:len(s.Stack)-1]
	return top, true
}

func (s *OverlayStack) Peek() (View, bool) {
	if len(s.Stack) == 0 {
		return nil, false
	}
	return s.Stack[len(s.Stack)-1], true
}

func (s *OverlayStack) Len() int {
	return len(s.Stack)
}

// UpdateTop passes msg to the top overlay and stores the result. The bool is
// false when there is no overlay.
func (s *OverlayStack) UpdateTop(msg tea.Msg) (tea.Cmd, bool) {
	if len(s.Stack) == 0 {
		return nil, false
	}
	top := &s.Stack[len(s.Stack)-1]
	v, cmd := (*top).Update(msg)
	*top = v
	return cmd, true
}
