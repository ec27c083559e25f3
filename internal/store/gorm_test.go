package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/emrgen/circle/internal/model"
	"github.com/emrgen/circle/internal/tester"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	tester.Setup()
	code := m.Run()

	os.Exit(code)
}

func createUser(t *testing.T) *model.User {
	t.Helper()

	user := &model.User{
		Email:     gofakeit.Email(),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
	}
	if err := tester.TestDB().Create(user).Error; err != nil {
		t.Fatalf("creating user: %v", err)
	}
	return user
}

func TestGormStore_FindConnectionByPair(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	s := NewGormStore(tester.TestDB())

	alice := createUser(t)
	bob := createUser(t)

	conn := &model.Connection{RequesterID: alice.ID, AddresseeID: bob.ID, Status: model.ConnectionPending}
	assert.NoError(t, s.CreateConnection(context.TODO(), conn))

	// the pair key resolves the row regardless of argument order
	got, err := s.FindConnectionByPair(context.TODO(), alice.ID, bob.ID)
	assert.NoError(t, err)
	assert.Equal(t, conn.ID, got.ID)

	got, err = s.FindConnectionByPair(context.TODO(), bob.ID, alice.ID)
	assert.NoError(t, err)
	assert.Equal(t, conn.ID, got.ID)

	_, err = s.FindConnectionByPair(context.TODO(), alice.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_CreateConnection_DuplicatePair(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	s := NewGormStore(tester.TestDB())

	alice := createUser(t)
	bob := createUser(t)

	assert.NoError(t, s.CreateConnection(context.TODO(), &model.Connection{
		RequesterID: alice.ID,
		AddresseeID: bob.ID,
		Status:      model.ConnectionPending,
	}))

	// the reverse direction lands on the same pair key
	err := s.CreateConnection(context.TODO(), &model.Connection{
		RequesterID: bob.ID,
		AddresseeID: alice.ID,
		Status:      model.ConnectionPending,
	})
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestGormStore_ResolveConnection(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	s := NewGormStore(tester.TestDB())

	alice := createUser(t)
	bob := createUser(t)

	conn := &model.Connection{RequesterID: alice.ID, AddresseeID: bob.ID, Status: model.ConnectionPending}
	assert.NoError(t, s.CreateConnection(context.TODO(), conn))

	changed, err := s.ResolveConnection(context.TODO(), conn.ID, model.ConnectionAccepted)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	// the guard only matches pending rows, so a second resolve is a no-op
	changed, err = s.ResolveConnection(context.TODO(), conn.ID, model.ConnectionDeclined)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), changed)

	got, err := s.GetConnection(context.TODO(), conn.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.ConnectionAccepted, got.Status)
}

func TestGormStore_DeleteDeclinedBefore(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	s := NewGormStore(tester.TestDB())

	alice := createUser(t)
	bob := createUser(t)
	carol := createUser(t)

	declined := &model.Connection{RequesterID: alice.ID, AddresseeID: bob.ID, Status: model.ConnectionDeclined}
	assert.NoError(t, s.CreateConnection(context.TODO(), declined))
	accepted := &model.Connection{RequesterID: alice.ID, AddresseeID: carol.ID, Status: model.ConnectionAccepted}
	assert.NoError(t, s.CreateConnection(context.TODO(), accepted))

	// age the declined row past the cutoff
	err := tester.TestDB().
		Model(&model.Connection{}).
		Where("id = ?", declined.ID).
		Update("updated_at", time.Now().Add(-48*time.Hour)).Error
	assert.NoError(t, err)

	removed, err := s.DeleteDeclinedBefore(context.TODO(), time.Now().Add(-24*time.Hour))
	assert.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = s.GetConnection(context.TODO(), declined.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// non-declined rows survive regardless of age
	_, err = s.GetConnection(context.TODO(), accepted.ID)
	assert.NoError(t, err)
}

func TestGormStore_ListPostsByAuthors(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	s := NewGormStore(tester.TestDB())

	alice := createUser(t)
	bob := createUser(t)

	for _, author := range []uint{alice.ID, bob.ID, alice.ID} {
		assert.NoError(t, s.CreatePost(context.TODO(), &model.Post{UserID: author, Content: "post"}))
	}

	posts, err := s.ListPostsByAuthors(context.TODO(), []uint{alice.ID}, 0, 10)
	assert.NoError(t, err)
	assert.Len(t, posts, 2)

	posts, err = s.ListPostsByAuthors(context.TODO(), []uint{alice.ID, bob.ID}, 0, 10)
	assert.NoError(t, err)
	assert.Len(t, posts, 3)

	// an empty author set short-circuits to an empty page
	posts, err = s.ListPostsByAuthors(context.TODO(), nil, 0, 10)
	assert.NoError(t, err)
	assert.Empty(t, posts)
}

func TestGormStore_FillEngagementCounts(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	s := NewGormStore(tester.TestDB())

	alice := createUser(t)
	bob := createUser(t)

	post := &model.Post{UserID: alice.ID, Content: "post"}
	assert.NoError(t, s.CreatePost(context.TODO(), post))
	bare := &model.Post{UserID: alice.ID, Content: "bare"}
	assert.NoError(t, s.CreatePost(context.TODO(), bare))

	assert.NoError(t, s.CreateLike(context.TODO(), &model.Like{UserID: alice.ID, PostID: post.ID}))
	assert.NoError(t, s.CreateLike(context.TODO(), &model.Like{UserID: bob.ID, PostID: post.ID}))
	assert.NoError(t, s.CreateComment(context.TODO(), &model.Comment{UserID: bob.ID, PostID: post.ID, Content: "hi"}))

	posts := []*model.Post{post, bare}
	assert.NoError(t, s.FillEngagementCounts(context.TODO(), posts))

	assert.Equal(t, 2, post.LikeCount)
	assert.Equal(t, 1, post.CommentCount)
	assert.Equal(t, 0, bare.LikeCount)
	assert.Equal(t, 0, bare.CommentCount)
}

func TestGormStore_CreateLike_Duplicate(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	s := NewGormStore(tester.TestDB())

	alice := createUser(t)

	post := &model.Post{UserID: alice.ID, Content: "post"}
	assert.NoError(t, s.CreatePost(context.TODO(), post))

	assert.NoError(t, s.CreateLike(context.TODO(), &model.Like{UserID: alice.ID, PostID: post.ID}))
	err := s.CreateLike(context.TODO(), &model.Like{UserID: alice.ID, PostID: post.ID})
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestGormStore_SearchUsers(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	s := NewGormStore(tester.TestDB())

	user := &model.User{Email: gofakeit.Email(), FirstName: "Marisol", LastName: "Quintero", Headline: "Staff Engineer"}
	assert.NoError(t, tester.TestDB().Create(user).Error)

	users, err := s.SearchUsers(context.TODO(), "arisol", 10)
	assert.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, user.ID, users[0].ID)

	users, err = s.SearchUsers(context.TODO(), "Staff", 10)
	assert.NoError(t, err)
	assert.Len(t, users, 1)

	users, err = s.SearchUsers(context.TODO(), "nobody", 10)
	assert.NoError(t, err)
	assert.Empty(t, users)
}
