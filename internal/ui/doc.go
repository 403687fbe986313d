// Package ui is the Bubble Tea terminal client for travelchat.
//
// Core pieces:
//   - View: a screen or modal with its own model, update, view (Elm-style)
//   - ChatView: transcript viewport, prompt and spinner
//   - RenderNode: draws render.Node display trees with lipgloss
//   - OverlayStack: modal views that take input before the chat
package ui
