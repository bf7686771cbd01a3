package tui

// notifyChangedMsg repaints after the notifier changes outside the update
// loop, which is when the toast auto-hides.
type notifyChangedMsg struct{}
