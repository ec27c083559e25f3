package store

import (
	"context"
	"errors"
	"time"

	"github.com/emrgen/circle/internal/model"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when an insert violates a uniqueness
	// constraint at commit time.
	ErrDuplicateKey = errors.New("duplicate key")
)

type Store interface {
	ConnectionStore
	EngagementStore
	UserStore
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

type ConnectionStore interface {
	// CreateConnection inserts a new connection row. The canonical pair key
	// makes a concurrent insert for the same pair fail with ErrDuplicateKey.
	CreateConnection(ctx context.Context, conn *model.Connection) error
	// GetConnection retrieves a connection by ID.
	GetConnection(ctx context.Context, id uint) (*model.Connection, error)
	// FindConnectionByPair looks up the connection between two users
	// regardless of direction.
	FindConnectionByPair(ctx context.Context, userA, userB uint) (*model.Connection, error)
	// ListAcceptedConnections retrieves accepted connections touching userID
	// on either side.
	ListAcceptedConnections(ctx context.Context, userID uint) ([]*model.Connection, error)
	// ListPendingConnections retrieves pending connections addressed to
	// addresseeID, newest first.
	ListPendingConnections(ctx context.Context, addresseeID uint) ([]*model.Connection, error)
	// ResolveConnection moves a pending connection to a terminal status and
	// reports the number of rows changed, so callers can detect a lost race.
	ResolveConnection(ctx context.Context, id uint, status model.ConnectionStatus) (int64, error)
	// DeleteDeclinedBefore removes declined connections last updated before
	// the cutoff.
	DeleteDeclinedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type EngagementStore interface {
	// CreatePost inserts a new post.
	CreatePost(ctx context.Context, post *model.Post) error
	// GetPost retrieves a post by ID.
	GetPost(ctx context.Context, id uint) (*model.Post, error)
	// ListPostsByAuthors retrieves posts authored by any of authorIDs,
	// newest first with ID as the tie-break.
	ListPostsByAuthors(ctx context.Context, authorIDs []uint, offset, limit int) ([]*model.Post, error)
	// FillEngagementCounts populates LikeCount and CommentCount on the given
	// posts with one grouped query per child table.
	FillEngagementCounts(ctx context.Context, posts []*model.Post) error
	// CreateComment inserts a new comment.
	CreateComment(ctx context.Context, comment *model.Comment) error
	// ListComments retrieves the comments of a post in creation order.
	ListComments(ctx context.Context, postID uint) ([]*model.Comment, error)
	// FindLike looks up the like of a user on a post.
	FindLike(ctx context.Context, userID, postID uint) (*model.Like, error)
	// CreateLike inserts a like row.
	CreateLike(ctx context.Context, like *model.Like) error
	// DeleteLike removes the like of a user on a post.
	DeleteLike(ctx context.Context, userID, postID uint) error
	// CountLikes returns the number of likes on a post.
	CountLikes(ctx context.Context, postID uint) (int64, error)
}

type UserStore interface {
	// GetUser retrieves a user row by ID.
	GetUser(ctx context.Context, id uint) (*model.User, error)
	// ListUsersFromIDs retrieves user rows by IDs.
	ListUsersFromIDs(ctx context.Context, ids []uint) ([]*model.User, error)
	// SearchUsers finds users whose name or headline matches query.
	SearchUsers(ctx context.Context, query string, limit int) ([]*model.User, error)
}
