package action

// ReloadMsg asks the host to refetch the dashboard and rebuild the
// document from the fresh snapshot.
type ReloadMsg struct{}

// CompletedMsg carries the outcome of a completion request.
type CompletedMsg struct {
	TaskID string
	Err    error
}

// MarkedAllReadMsg carries the outcome of a mark-all-read request.
type MarkedAllReadMsg struct {
	Err error
}

// ThemeChangedMsg reports the body's dark class after a toggle.
type ThemeChangedMsg struct {
	Dark bool
}
