package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/emrgen/circle/internal/model"
	"github.com/emrgen/circle/internal/store"
	"github.com/sirupsen/logrus"
)

const (
	maxPostContentLen    = 3000
	maxCommentContentLen = 1000
)

// LikeState reports the state of a like after a toggle.
type LikeState string

const (
	Liked   LikeState = "liked"
	Unliked LikeState = "unliked"
)

// NewEngagementService creates a new EngagementService.
func NewEngagementService(store store.Store) *EngagementService {
	return &EngagementService{
		store: store,
	}
}

// EngagementService manages posts, comments, and likes. Counts are always
// derived from the child tables, never stored on the post.
type EngagementService struct {
	store store.Store
}

// CreatePost creates a post with bounded content and an optional image URL.
func (s *EngagementService) CreatePost(ctx context.Context, authorID uint, content, imageURL string) (*model.Post, error) {
	n := utf8.RuneCountInString(content)
	if n == 0 {
		return nil, fmt.Errorf("%w: post content is empty", ErrValidation)
	}
	if n > maxPostContentLen {
		return nil, fmt.Errorf("%w: post content longer than %d characters", ErrValidation, maxPostContentLen)
	}

	post := &model.Post{
		UserID:   authorID,
		Content:  content,
		ImageURL: imageURL,
	}

	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, tagged(err)
	}

	logrus.Infof("post %d created by user %d", post.ID, authorID)

	return post, nil
}

// ToggleLike flips the like of a user on a post and returns the resulting
// state plus the new like count. Repeated calls alternate liked/unliked;
// callers wanting pure "like" must check state first. Two near-simultaneous
// toggles may land in either state, which is accepted behavior.
func (s *EngagementService) ToggleLike(ctx context.Context, userID, postID uint) (LikeState, int64, error) {
	var state LikeState

	err := s.store.Transaction(ctx, func(tx store.Store) error {
		if _, err := tx.GetPost(ctx, postID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: post %d", ErrNotFound, postID)
			}
			return err
		}

		_, err := tx.FindLike(ctx, userID, postID)
		switch {
		case err == nil:
			state = Unliked
			return tx.DeleteLike(ctx, userID, postID)
		case errors.Is(err, store.ErrNotFound):
			state = Liked
			return tx.CreateLike(ctx, &model.Like{UserID: userID, PostID: postID})
		default:
			return err
		}
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			// concurrent toggle created the row first; the pair is liked,
			// which is one of the two legal outcomes
			state = Liked
		} else {
			return "", 0, tagged(err)
		}
	}

	count, err := s.store.CountLikes(ctx, postID)
	if err != nil {
		return "", 0, tagged(err)
	}

	return state, count, nil
}

// AddComment adds a comment to an existing post.
func (s *EngagementService) AddComment(ctx context.Context, userID, postID uint, content string) (*model.Comment, error) {
	n := utf8.RuneCountInString(content)
	if n == 0 {
		return nil, fmt.Errorf("%w: comment content is empty", ErrValidation)
	}
	if n > maxCommentContentLen {
		return nil, fmt.Errorf("%w: comment content longer than %d characters", ErrValidation, maxCommentContentLen)
	}

	comment := &model.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}

	err := s.store.Transaction(ctx, func(tx store.Store) error {
		if _, err := tx.GetPost(ctx, postID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: post %d", ErrNotFound, postID)
			}
			return err
		}
		return tx.CreateComment(ctx, comment)
	})
	if err != nil {
		return nil, tagged(err)
	}

	return comment, nil
}

// Comments lists the comments of a post in creation order.
func (s *EngagementService) Comments(ctx context.Context, postID uint) ([]*model.Comment, error) {
	comments, err := s.store.ListComments(ctx, postID)
	if err != nil {
		return nil, tagged(err)
	}
	return comments, nil
}

// PostsByAuthor lists the posts of one author, newest first, with like and
// comment counts resolved eagerly.
func (s *EngagementService) PostsByAuthor(ctx context.Context, authorID uint, offset, limit int) ([]*model.Post, error) {
	offset, limit = clampPage(offset, limit)

	posts, err := s.store.ListPostsByAuthors(ctx, []uint{authorID}, offset, limit)
	if err != nil {
		return nil, tagged(err)
	}

	if err := s.store.FillEngagementCounts(ctx, posts); err != nil {
		return nil, tagged(err)
	}

	return posts, nil
}
