package directory

import (
	"context"
	"errors"

	"github.com/emrgen/circle/internal/model"
	"github.com/emrgen/circle/internal/store"
)

var _ Directory = (*GormDirectory)(nil)

// NewGormDirectory creates a directory reading straight from the user store.
func NewGormDirectory(store store.Store) *GormDirectory {
	return &GormDirectory{
		store: store,
	}
}

type GormDirectory struct {
	store store.Store
}

func summarize(u *model.User) *Summary {
	return &Summary{
		UserID:   u.ID,
		Name:     u.FullName(),
		Headline: u.Headline,
	}
}

func (d *GormDirectory) Exists(ctx context.Context, userID uint) (bool, error) {
	_, err := d.store.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (d *GormDirectory) Summary(ctx context.Context, userID uint) (*Summary, error) {
	user, err := d.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return summarize(user), nil
}

func (d *GormDirectory) Summaries(ctx context.Context, userIDs []uint) (map[uint]*Summary, error) {
	users, err := d.store.ListUsersFromIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	summaries := make(map[uint]*Summary, len(users))
	for _, u := range users {
		summaries[u.ID] = summarize(u)
	}

	return summaries, nil
}

func (d *GormDirectory) Search(ctx context.Context, query string, limit int) ([]*Summary, error) {
	users, err := d.store.SearchUsers(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]*Summary, len(users))
	for i, u := range users {
		summaries[i] = summarize(u)
	}

	return summaries, nil
}
