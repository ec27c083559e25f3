package service

import (
	"context"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/emrgen/circle/internal/directory"
	"github.com/emrgen/circle/internal/model"
	"github.com/emrgen/circle/internal/store"
	"github.com/sirupsen/logrus"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

func clampPage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return offset, limit
}

// NewFeedService creates a new FeedService.
func NewFeedService(store store.Store, connections *ConnectionService, directory directory.Directory) *FeedService {
	return &FeedService{
		store:       store,
		connections: connections,
		directory:   directory,
	}
}

// FeedService assembles a user's feed: own posts plus posts from accepted
// connections, newest first.
type FeedService struct {
	store       store.Store
	connections *ConnectionService
	directory   directory.Directory
}

// AudienceIDs resolves the set of authors whose posts are eligible for the
// user's feed: the user plus everyone on the other side of an accepted
// connection.
func (s *FeedService) AudienceIDs(ctx context.Context, userID uint) ([]uint, error) {
	audience := mapset.NewSet[uint](userID)

	edges, err := s.connections.AcceptedConnections(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, edge := range edges {
		audience.Add(edge.OtherUserID)
	}

	return audience.ToSlice(), nil
}

// Feed returns the user's feed page with counts and author display data
// attached. Ties on created_at order by post id descending so pagination
// stays deterministic. An empty audience yields an empty page, not an error.
func (s *FeedService) Feed(ctx context.Context, userID uint, offset, limit int) ([]*model.Post, error) {
	offset, limit = clampPage(offset, limit)

	audience, err := s.AudienceIDs(ctx, userID)
	if err != nil {
		return nil, tagged(err)
	}

	posts, err := s.store.ListPostsByAuthors(ctx, audience, offset, limit)
	if err != nil {
		return nil, tagged(err)
	}

	if err := s.store.FillEngagementCounts(ctx, posts); err != nil {
		return nil, tagged(err)
	}

	if err := s.attachAuthors(ctx, posts); err != nil {
		return nil, tagged(err)
	}

	return posts, nil
}

func (s *FeedService) attachAuthors(ctx context.Context, posts []*model.Post) error {
	if len(posts) == 0 {
		return nil
	}

	authorIDs := mapset.NewSet[uint]()
	for _, p := range posts {
		authorIDs.Add(p.UserID)
	}

	summaries, err := s.directory.Summaries(ctx, authorIDs.ToSlice())
	if err != nil {
		return err
	}

	for _, p := range posts {
		summary, ok := summaries[p.UserID]
		if !ok {
			// author row gone from the directory; leave display fields empty
			logrus.Warnf("no directory summary for author %d of post %d", p.UserID, p.ID)
			continue
		}
		p.AuthorName = summary.Name
		p.AuthorHeadline = summary.Headline
	}

	return nil
}
