package store

import (
	"context"
	"errors"
	"time"

	"github.com/emrgen/circle/internal/model"
	"gorm.io/gorm"
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

// translate maps gorm errors to store sentinels so the service layer never
// depends on the driver. Requires the db to be opened with TranslateError.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	}
	return err
}

func (g *GormStore) CreateConnection(ctx context.Context, conn *model.Connection) error {
	return translate(g.db.WithContext(ctx).Create(conn).Error)
}

func (g *GormStore) GetConnection(ctx context.Context, id uint) (*model.Connection, error) {
	var conn model.Connection
	err := g.db.WithContext(ctx).First(&conn, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &conn, nil
}

func (g *GormStore) FindConnectionByPair(ctx context.Context, userA, userB uint) (*model.Connection, error) {
	var conn model.Connection
	err := g.db.WithContext(ctx).
		Where("pair_key = ?", model.PairKey(userA, userB)).
		First(&conn).Error
	if err != nil {
		return nil, translate(err)
	}
	return &conn, nil
}

func (g *GormStore) ListAcceptedConnections(ctx context.Context, userID uint) ([]*model.Connection, error) {
	var conns []*model.Connection
	err := g.db.WithContext(ctx).
		Where("(requester_id = ? OR addressee_id = ?) AND status = ?", userID, userID, model.ConnectionAccepted).
		Order("updated_at DESC, id DESC").
		Find(&conns).Error
	return conns, translate(err)
}

func (g *GormStore) ListPendingConnections(ctx context.Context, addresseeID uint) ([]*model.Connection, error) {
	var conns []*model.Connection
	err := g.db.WithContext(ctx).
		Where("addressee_id = ? AND status = ?", addresseeID, model.ConnectionPending).
		Order("created_at DESC, id DESC").
		Find(&conns).Error
	return conns, translate(err)
}

// ResolveConnection guards on the pending status so two concurrent responses
// cannot both succeed; the loser sees zero rows changed.
func (g *GormStore) ResolveConnection(ctx context.Context, id uint, status model.ConnectionStatus) (int64, error) {
	res := g.db.WithContext(ctx).
		Model(&model.Connection{}).
		Where("id = ? AND status = ?", id, model.ConnectionPending).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	return res.RowsAffected, translate(res.Error)
}

func (g *GormStore) DeleteDeclinedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := g.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", model.ConnectionDeclined, cutoff).
		Delete(&model.Connection{})
	return res.RowsAffected, translate(res.Error)
}

func (g *GormStore) CreatePost(ctx context.Context, post *model.Post) error {
	return translate(g.db.WithContext(ctx).Create(post).Error)
}

func (g *GormStore) GetPost(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	err := g.db.WithContext(ctx).First(&post, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (g *GormStore) ListPostsByAuthors(ctx context.Context, authorIDs []uint, offset, limit int) ([]*model.Post, error) {
	posts := make([]*model.Post, 0)
	if len(authorIDs) == 0 {
		return posts, nil
	}
	err := g.db.WithContext(ctx).
		Where("user_id IN ?", authorIDs).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	return posts, translate(err)
}

func (g *GormStore) FillEngagementCounts(ctx context.Context, posts []*model.Post) error {
	if len(posts) == 0 {
		return nil
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type countRow struct {
		PostID uint
		Count  int
	}

	var likeRows []countRow
	err := g.db.WithContext(ctx).
		Model(&model.Like{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&likeRows).Error
	if err != nil {
		return translate(err)
	}

	var commentRows []countRow
	err = g.db.WithContext(ctx).
		Model(&model.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&commentRows).Error
	if err != nil {
		return translate(err)
	}

	likes := make(map[uint]int, len(likeRows))
	for _, r := range likeRows {
		likes[r.PostID] = r.Count
	}
	comments := make(map[uint]int, len(commentRows))
	for _, r := range commentRows {
		comments[r.PostID] = r.Count
	}

	for _, p := range posts {
		p.LikeCount = likes[p.ID]
		p.CommentCount = comments[p.ID]
	}

	return nil
}

func (g *GormStore) CreateComment(ctx context.Context, comment *model.Comment) error {
	return translate(g.db.WithContext(ctx).Create(comment).Error)
}

func (g *GormStore) ListComments(ctx context.Context, postID uint) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := g.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, translate(err)
}

func (g *GormStore) FindLike(ctx context.Context, userID, postID uint) (*model.Like, error) {
	var like model.Like
	err := g.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&like).Error
	if err != nil {
		return nil, translate(err)
	}
	return &like, nil
}

func (g *GormStore) CreateLike(ctx context.Context, like *model.Like) error {
	return translate(g.db.WithContext(ctx).Create(like).Error)
}

func (g *GormStore) DeleteLike(ctx context.Context, userID, postID uint) error {
	return translate(g.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.Like{}).Error)
}

func (g *GormStore) CountLikes(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, translate(err)
}

func (g *GormStore) GetUser(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := g.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (g *GormStore) ListUsersFromIDs(ctx context.Context, ids []uint) ([]*model.User, error) {
	users := make([]*model.User, 0)
	if len(ids) == 0 {
		return users, nil
	}
	err := g.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, translate(err)
}

func (g *GormStore) SearchUsers(ctx context.Context, query string, limit int) ([]*model.User, error) {
	users := make([]*model.User, 0)
	pattern := "%" + query + "%"
	err := g.db.WithContext(ctx).
		Where("first_name LIKE ? OR last_name LIKE ? OR headline LIKE ?", pattern, pattern, pattern).
		Limit(limit).
		Find(&users).Error
	return users, translate(err)
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}
