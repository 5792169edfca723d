package job

import "encoding/json"

type Job struct {
	ID            int64
	UserID        int64
	ColumnID      int64
	PositionTitle string
	Company       string
	Description   string
	Notes         string
	CoverLetter   string
	Type          *string
	// Deadlines is an opaque client-defined JSON document; nil when unset.
	Deadlines json.RawMessage
}

// Summary is the card-sized projection used to render a board.
type Summary struct {
	ID            int64
	ColumnID      int64
	PositionTitle string
	Company       string
	Type          *string
}
