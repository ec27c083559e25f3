package directory

import (
	"context"
)

// Summary is the display data the graph core exposes per user: enough for a
// feed or connection list entry, nothing more.
type Summary struct {
	UserID   uint   `json:"user_id"`
	Name     string `json:"name"`
	Headline string `json:"headline"`
}

// Directory is the user-directory collaborator. The core uses it for
// existence checks and display data; it never mutates user records.
type Directory interface {
	// Exists reports whether a user id is known to the directory.
	Exists(ctx context.Context, userID uint) (bool, error)
	// Summary returns the display fields of one user.
	Summary(ctx context.Context, userID uint) (*Summary, error)
	// Summaries batch-resolves display fields for a set of users. Unknown
	// ids are simply absent from the result.
	Summaries(ctx context.Context, userIDs []uint) (map[uint]*Summary, error)
	// Search finds users by name or headline, case handling left to the
	// underlying store collation.
	Search(ctx context.Context, query string, limit int) ([]*Summary, error)
}
