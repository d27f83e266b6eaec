package db

import "time"

// Document is a persisted ingestion result.
type Document struct {
	ID          int64
	PublicID    string
	Name        string
	ContentType string
	Size        int64
	Content     string
	WordCount   int32
	TokenCount  int32
	Success     bool
	Error       string
	FileKey     string
	CreatedAt   time.Time
}

// Report is a stored research report.
type Report struct {
	ID         int64
	PublicID   string
	Title      string
	Content    string
	WordCount  int32
	TokenCount int32
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ReportSource is one citation of a report, ordered by Position.
type ReportSource struct {
	ID       int64
	ReportID int64
	PublicID string
	Position int32
	Type     string
	Title    string
	Content  string
	URL      string
	Metadata []byte
}

// Chat is a conversation session.
type Chat struct {
	ID        int64
	PublicID  string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChatMessage is one turn of a chat, ordered by insertion.
type ChatMessage struct {
	ID        int64
	ChatID    int64
	PublicID  string
	Role      string
	Content   string
	Thinking  []byte
	ReportID  string
	CreatedAt time.Time
}

// MindMap is a generation job and, once done, its result graph.
type MindMap struct {
	ID        int64
	PublicID  string
	ReportID  int64
	Status    string
	Error     string
	Nodes     []byte
	Edges     []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}
