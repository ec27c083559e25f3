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

const maxConnectionMessageLen = 500

// NewConnectionService creates a new ConnectionService.
func NewConnectionService(store store.Store) *ConnectionService {
	return &ConnectionService{
		store: store,
	}
}

// ConnectionService owns the connection lifecycle: request, accept, decline.
// The state machine is one-shot: pending moves to accepted or declined and
// both are terminal.
type ConnectionService struct {
	store store.Store
}

// ConnectionEdge pairs a connection with the user on the other side of it.
type ConnectionEdge struct {
	OtherUserID uint              `json:"other_user_id"`
	Connection  *model.Connection `json:"connection"`
}

// SendRequest creates a pending connection from requester to addressee.
// A row for the pair in any status, either direction, blocks the request;
// a declined pair stays blocked until retention removes the row.
func (s *ConnectionService) SendRequest(ctx context.Context, requesterID, addresseeID uint, message string) (*model.Connection, error) {
	if requesterID == addresseeID {
		return nil, fmt.Errorf("%w: cannot connect to self", ErrValidation)
	}
	if utf8.RuneCountInString(message) > maxConnectionMessageLen {
		return nil, fmt.Errorf("%w: message longer than %d characters", ErrValidation, maxConnectionMessageLen)
	}

	conn := &model.Connection{
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Message:     message,
		Status:      model.ConnectionPending,
	}

	// The pre-check gives the friendly error; the pair-key constraint is
	// what actually holds under concurrent requests for the same pair.
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		existing, err := tx.FindConnectionByPair(ctx, requesterID, addresseeID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: between users %d and %d", ErrDuplicateRelationship, requesterID, addresseeID)
		}
		return tx.CreateConnection(ctx, conn)
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			// lost the race to a concurrent request for the same pair
			return nil, fmt.Errorf("%w: between users %d and %d", ErrDuplicateRelationship, requesterID, addresseeID)
		}
		return nil, tagged(err)
	}

	logrus.Infof("connection request %d sent from user %d to user %d", conn.ID, requesterID, addresseeID)

	return conn, nil
}

// Respond accepts or declines a pending connection. Only the addressee may
// respond, and only while the connection is still pending.
func (s *ConnectionService) Respond(ctx context.Context, connectionID, actingUserID uint, accept bool) (*model.Connection, error) {
	target := model.ConnectionDeclined
	if accept {
		target = model.ConnectionAccepted
	}

	var conn *model.Connection
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		conn, err = tx.GetConnection(ctx, connectionID)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: connection %d", ErrNotFound, connectionID)
		}
		if err != nil {
			return err
		}

		if conn.AddresseeID != actingUserID {
			return fmt.Errorf("%w: only the addressee may respond to connection %d", ErrUnauthorized, connectionID)
		}
		if conn.Resolved() {
			return fmt.Errorf("%w: connection %d is already %s", ErrUnauthorized, connectionID, conn.Status)
		}

		changed, err := tx.ResolveConnection(ctx, connectionID, target)
		if err != nil {
			return err
		}
		if changed == 0 {
			// another response won between the read and the update
			return fmt.Errorf("%w: connection %d is no longer pending", ErrUnauthorized, connectionID)
		}

		conn, err = tx.GetConnection(ctx, connectionID)
		return err
	})
	if err != nil {
		return nil, tagged(err)
	}

	logrus.Infof("connection %d %s by user %d", connectionID, conn.Status, actingUserID)

	return conn, nil
}

// AcceptedConnections resolves the accepted connections of a user together
// with the user on the other side of each.
func (s *ConnectionService) AcceptedConnections(ctx context.Context, userID uint) ([]ConnectionEdge, error) {
	conns, err := s.store.ListAcceptedConnections(ctx, userID)
	if err != nil {
		return nil, tagged(err)
	}

	edges := make([]ConnectionEdge, len(conns))
	for i, conn := range conns {
		edges[i] = ConnectionEdge{
			OtherUserID: conn.OtherUserID(userID),
			Connection:  conn,
		}
	}

	return edges, nil
}

// PendingRequests lists the open requests addressed to a user, newest first.
func (s *ConnectionService) PendingRequests(ctx context.Context, userID uint) ([]*model.Connection, error) {
	conns, err := s.store.ListPendingConnections(ctx, userID)
	if err != nil {
		return nil, tagged(err)
	}
	return conns, nil
}
