package messages

import "ezsubs/internal/session"

// DropDoneMsg carries the result of a drop once its batch is applied.
type DropDoneMsg struct {
	Result session.DropResult
}

// SyncDoneMsg carries the report of a finished sync.
type SyncDoneMsg struct {
	Report *session.SyncReport
}
