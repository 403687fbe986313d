package ui

import "travelchat/internal/chat"

// ReplyMsg carries the answer to a submitted query.
type ReplyMsg struct {
	Query   string
	Message chat.Message
}

// ErrorMsg is sent when a query fails.
type ErrorMsg struct {
	Query string
	Err   error
}

// HistoryMsg carries the earlier messages of the session, oldest first.
type HistoryMsg struct {
	Messages []chat.Message
	Err      error
}

// ShowClearConfirmMsg asks the app to confirm clearing the conversation (ctrl+l).
type ShowClearConfirmMsg struct{}

// ClearConversationMsg clears the transcript and the stored session.
type ClearConversationMsg struct{}

// ClearedMsg reports the result of clearing the stored session.
type ClearedMsg struct {
	Err error
}

// DismissModalMsg closes the topmost overlay.
type DismissModalMsg struct{}
