package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/emrgen/circle/internal/directory"
	"github.com/emrgen/circle/internal/model"
)

// NewGraphService creates the facade over the connection, engagement, and
// feed services.
func NewGraphService(connections *ConnectionService, engagement *EngagementService, feed *FeedService, directory directory.Directory) *GraphService {
	return &GraphService{
		connections: connections,
		engagement:  engagement,
		feed:        feed,
		directory:   directory,
	}
}

// GraphService is the single entry point for the presentation layer. It
// takes primitive identifiers, verifies referenced users against the
// directory, and returns either values or tagged failures — raw store
// errors never cross this boundary.
type GraphService struct {
	connections *ConnectionService
	engagement  *EngagementService
	feed        *FeedService
	directory   directory.Directory
}

// ConnectionView is a connection edge decorated with the other user's
// display data for presentation.
type ConnectionView struct {
	OtherUser  *directory.Summary `json:"other_user,omitempty"`
	Connection *model.Connection  `json:"connection"`
}

func (g *GraphService) ensureUser(ctx context.Context, userID uint) error {
	ok, err := g.directory.Exists(ctx, userID)
	if err != nil {
		return tagged(err)
	}
	if !ok {
		return fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	return nil
}

// SendConnectionRequest sends a pending connection request to addresseeID.
func (g *GraphService) SendConnectionRequest(ctx context.Context, requesterID, addresseeID uint, message string) (*model.Connection, error) {
	if requesterID == 0 || addresseeID == 0 {
		return nil, fmt.Errorf("%w: requester and addressee ids are required", ErrValidation)
	}
	if err := g.ensureUser(ctx, addresseeID); err != nil {
		return nil, err
	}
	return g.connections.SendRequest(ctx, requesterID, addresseeID, message)
}

// RespondToConnection accepts or declines a pending request on behalf of
// actingUserID.
func (g *GraphService) RespondToConnection(ctx context.Context, connectionID, actingUserID uint, accept bool) (*model.Connection, error) {
	if connectionID == 0 || actingUserID == 0 {
		return nil, fmt.Errorf("%w: connection and acting user ids are required", ErrValidation)
	}
	return g.connections.Respond(ctx, connectionID, actingUserID, accept)
}

// Connections lists the accepted connections of a user with the other
// side's display data attached.
func (g *GraphService) Connections(ctx context.Context, userID uint) ([]ConnectionView, error) {
	edges, err := g.connections.AcceptedConnections(ctx, userID)
	if err != nil {
		return nil, err
	}

	otherIDs := make([]uint, len(edges))
	for i, edge := range edges {
		otherIDs[i] = edge.OtherUserID
	}

	summaries, err := g.directory.Summaries(ctx, otherIDs)
	if err != nil {
		return nil, tagged(err)
	}

	views := make([]ConnectionView, len(edges))
	for i, edge := range edges {
		views[i] = ConnectionView{
			OtherUser:  summaries[edge.OtherUserID],
			Connection: edge.Connection,
		}
	}

	return views, nil
}

// PendingRequests lists the open requests addressed to a user, newest
// first, with the requester's display data attached.
func (g *GraphService) PendingRequests(ctx context.Context, userID uint) ([]ConnectionView, error) {
	conns, err := g.connections.PendingRequests(ctx, userID)
	if err != nil {
		return nil, err
	}

	requesterIDs := make([]uint, len(conns))
	for i, conn := range conns {
		requesterIDs[i] = conn.RequesterID
	}

	summaries, err := g.directory.Summaries(ctx, requesterIDs)
	if err != nil {
		return nil, tagged(err)
	}

	views := make([]ConnectionView, len(conns))
	for i, conn := range conns {
		views[i] = ConnectionView{
			OtherUser:  summaries[conn.RequesterID],
			Connection: conn,
		}
	}

	return views, nil
}

// Feed returns a page of the user's feed.
func (g *GraphService) Feed(ctx context.Context, userID uint, offset, limit int) ([]*model.Post, error) {
	return g.feed.Feed(ctx, userID, offset, limit)
}

// CreatePost creates a post authored by authorID.
func (g *GraphService) CreatePost(ctx context.Context, authorID uint, content, imageURL string) (*model.Post, error) {
	if err := g.ensureUser(ctx, authorID); err != nil {
		return nil, err
	}
	return g.engagement.CreatePost(ctx, authorID, content, imageURL)
}

// ToggleLike flips userID's like on a post.
func (g *GraphService) ToggleLike(ctx context.Context, userID, postID uint) (LikeState, int64, error) {
	return g.engagement.ToggleLike(ctx, userID, postID)
}

// AddComment comments on a post on behalf of userID.
func (g *GraphService) AddComment(ctx context.Context, userID, postID uint, content string) (*model.Comment, error) {
	return g.engagement.AddComment(ctx, userID, postID, content)
}

// Comments lists the comments of a post in creation order.
func (g *GraphService) Comments(ctx context.Context, postID uint) ([]*model.Comment, error) {
	return g.engagement.Comments(ctx, postID)
}

// PostsByAuthor lists a user's own posts, newest first, with counts.
func (g *GraphService) PostsByAuthor(ctx context.Context, authorID uint, offset, limit int) ([]*model.Post, error) {
	return g.engagement.PostsByAuthor(ctx, authorID, offset, limit)
}

// SearchUsers finds directory users by name or headline.
func (g *GraphService) SearchUsers(ctx context.Context, query string, limit int) ([]*directory.Summary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is empty", ErrValidation)
	}
	_, limit = clampPage(0, limit)

	summaries, err := g.directory.Search(ctx, query, limit)
	if err != nil {
		return nil, tagged(err)
	}
	return summaries, nil
}
