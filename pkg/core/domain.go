// Record is the central entity of the domain.
package core

import "time"

// Source describes one remote table to mirror and the vault folder it lands in.
type Source struct {
	Name   string
	URL    string // https://airtable.com/app.../tbl.../viw...
	APIKey string
	Path   string // Root folder inside the vault, e.g. "Reading/Inbox"
	ID     string // Assigned once, never changes
	Export bool
}

// RemoteIDs identifies a table view on the remote side.
// All fields are empty when the source URL could not be parsed.
type RemoteIDs struct {
	BaseID  string
	TableID string
	ViewID  string
}

// Queryable reports whether the identifiers are enough to build a request.
func (r RemoteIDs) Queryable() bool {
	return r.BaseID != ""
}

// Fields holds the record fields the engine understands.
// Everything else the remote returns is kept in Extra.
type Fields struct {
	Title     string
	MD        string
	SubFolder string
	UpdatedIn *float64
	Extension *string
	Extra     map[string]any
}

// Record is one row of the remote table.
type Record struct {
	ID     string
	Fields Fields
}

// NoticeKind classifies user facing notifications.
type NoticeKind string

const (
	NoticeFetched  NoticeKind = "FETCHED"
	NoticePlanned  NoticeKind = "PLANNED"
	NoticeProgress NoticeKind = "PROGRESS"
	NoticeFailure  NoticeKind = "FAILURE"
	NoticeComplete NoticeKind = "COMPLETE"
	NoticeDone     NoticeKind = "DONE"
)

// Notice is a fire-and-forget message for the user.
type Notice struct {
	Kind    NoticeKind
	Source  string
	Count   int
	Message string
}

// String implements fmt.Stringer.
func (n Notice) String() string {
	return n.Message
}

// RunReport summarizes one fetch-and-reconcile run.
type RunReport struct {
	SourceID    string    `json:"source_id"`
	SourceName  string    `json:"source_name"`
	Filter      string    `json:"filter"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	Pages       int       `json:"pages"`
	Records     int       `json:"records"`
	Created     int       `json:"created"`
	Overwritten int       `json:"overwritten"`
	Modified    int       `json:"modified"`
	Failed      int       `json:"failed"`
	FetchError  string    `json:"fetch_error,omitempty"`
}
