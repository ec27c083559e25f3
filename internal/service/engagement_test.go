package service

import (
	"context"
	"strings"
	"testing"

	"github.com/emrgen/circle/internal/store"
	"github.com/emrgen/circle/internal/tester"
	"github.com/stretchr/testify/assert"
)

func TestEngagementService_CreatePost(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	svc := NewEngagementService(store.NewGormStore(tester.TestDB()))

	alice := createTestUser(t)

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "plain post", content: "shipped the new release today"},
		{name: "at the length bound", content: strings.Repeat("a", 3000)},
		{name: "empty content", content: "", wantErr: ErrValidation},
		{name: "over the length bound", content: strings.Repeat("a", 3001), wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, err := svc.CreatePost(context.TODO(), alice.ID, tt.content, "")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.NotZero(t, post.ID)
			assert.Equal(t, alice.ID, post.UserID)
		})
	}
}

func TestEngagementService_ToggleLike(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	svc := NewEngagementService(store.NewGormStore(tester.TestDB()))

	alice := createTestUser(t)
	bob := createTestUser(t)

	post, err := svc.CreatePost(context.TODO(), alice.ID, "hello", "")
	assert.NoError(t, err)

	state, count, err := svc.ToggleLike(context.TODO(), bob.ID, post.ID)
	assert.NoError(t, err)
	assert.Equal(t, Liked, state)
	assert.Equal(t, int64(1), count)

	// second toggle by the same user removes the like
	state, count, err = svc.ToggleLike(context.TODO(), bob.ID, post.ID)
	assert.NoError(t, err)
	assert.Equal(t, Unliked, state)
	assert.Equal(t, int64(0), count)

	// likes from different users accumulate
	_, _, err = svc.ToggleLike(context.TODO(), alice.ID, post.ID)
	assert.NoError(t, err)
	state, count, err = svc.ToggleLike(context.TODO(), bob.ID, post.ID)
	assert.NoError(t, err)
	assert.Equal(t, Liked, state)
	assert.Equal(t, int64(2), count)
}

func TestEngagementService_ToggleLike_MissingPost(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	svc := NewEngagementService(store.NewGormStore(tester.TestDB()))

	alice := createTestUser(t)

	_, _, err := svc.ToggleLike(context.TODO(), alice.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEngagementService_AddComment(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	svc := NewEngagementService(store.NewGormStore(tester.TestDB()))

	alice := createTestUser(t)
	bob := createTestUser(t)

	post, err := svc.CreatePost(context.TODO(), alice.ID, "hello", "")
	assert.NoError(t, err)

	first, err := svc.AddComment(context.TODO(), bob.ID, post.ID, "congrats")
	assert.NoError(t, err)
	assert.NotZero(t, first.ID)

	second, err := svc.AddComment(context.TODO(), alice.ID, post.ID, "thanks")
	assert.NoError(t, err)

	comments, err := svc.Comments(context.TODO(), post.ID)
	assert.NoError(t, err)
	assert.Len(t, comments, 2)
	// creation order
	assert.Equal(t, first.ID, comments[0].ID)
	assert.Equal(t, second.ID, comments[1].ID)
}

func TestEngagementService_AddComment_Validation(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	svc := NewEngagementService(store.NewGormStore(tester.TestDB()))

	alice := createTestUser(t)

	post, err := svc.CreatePost(context.TODO(), alice.ID, "hello", "")
	assert.NoError(t, err)

	_, err = svc.AddComment(context.TODO(), alice.ID, post.ID, "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddComment(context.TODO(), alice.ID, post.ID, strings.Repeat("a", 1001))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddComment(context.TODO(), alice.ID, 9999, "orphan")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEngagementService_PostsByAuthor(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	svc := NewEngagementService(store.NewGormStore(tester.TestDB()))

	alice := createTestUser(t)
	bob := createTestUser(t)

	first, err := svc.CreatePost(context.TODO(), alice.ID, "first", "")
	assert.NoError(t, err)
	second, err := svc.CreatePost(context.TODO(), alice.ID, "second", "")
	assert.NoError(t, err)
	_, err = svc.CreatePost(context.TODO(), bob.ID, "someone else", "")
	assert.NoError(t, err)

	_, _, err = svc.ToggleLike(context.TODO(), bob.ID, first.ID)
	assert.NoError(t, err)
	_, err = svc.AddComment(context.TODO(), bob.ID, first.ID, "nice")
	assert.NoError(t, err)

	posts, err := svc.PostsByAuthor(context.TODO(), alice.ID, 0, 0)
	assert.NoError(t, err)
	assert.Len(t, posts, 2)
	// newest first, counts resolved
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)
	assert.Equal(t, 1, posts[1].LikeCount)
	assert.Equal(t, 1, posts[1].CommentCount)
	assert.Equal(t, 0, posts[0].LikeCount)
	assert.Equal(t, 0, posts[0].CommentCount)
}
