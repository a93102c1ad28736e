package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/anonto42/proconnect/backend/internal/models"
	"github.com/anonto42/proconnect/backend/internal/repositories"
	"go.uber.org/zap"
)

// ConnectionService manages the user-to-user social graph.
type ConnectionService struct {
	connections repositories.ConnectionRepository
	users       repositories.UserRepository
	directory   *AccountDirectory
	notifier    *NotificationService
	effects     *SideEffects
	logger      *zap.Logger
	now         func() time.Time
}

func NewConnectionService(
	connections repositories.ConnectionRepository,
	users repositories.UserRepository,
	directory *AccountDirectory,
	notifier *NotificationService,
	effects *SideEffects,
	logger *zap.Logger,
) *ConnectionService {
	return &ConnectionService{
		connections: connections,
		users:       users,
		directory:   directory,
		notifier:    notifier,
		effects:     effects,
		logger:      logger,
		now:         time.Now,
	}
}

func connectionEntity(c *models.Connection) models.EntityRef {
	return models.EntityRef{ID: strconv.FormatUint(uint64(c.ID), 10), Type: models.EntityConnection}
}

// existingConflict maps a live connection row to the error a new request gets.
func existingConflict(c *models.Connection) error {
	switch c.Status {
	case models.ConnectionPending:
		return ErrAlreadyPending
	case models.ConnectionAccepted:
		return ErrAlreadyConnected
	}
	return nil
}

// SendConnectionRequest creates a PENDING request. The pair is checked in
// both directions; a previously rejected pair may ask again.
func (s *ConnectionService) SendConnectionRequest(ctx context.Context, actor models.AccountRef, receiverID uint) (*models.Connection, error) {
	if !actor.IsUser() {
		return nil, ErrUsersOnly
	}
	if actor.ID == receiverID {
		return nil, ErrSelfAction
	}
	if _, err := s.users.GetUserByID(ctx, receiverID); err != nil {
		return nil, storeError("user", err)
	}

	existing, err := s.connections.GetBetween(ctx, actor.ID, receiverID)
	switch {
	case err == nil:
		if conflict := existingConflict(existing); conflict != nil {
			return nil, conflict
		}
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("lookup connection: %w", err)
	}

	conn := &models.Connection{RequesterID: actor.ID, ReceiverID: receiverID}
	if err := s.connections.CreateRequest(ctx, conn); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			// lost a race with a concurrent request for the same pair
			if current, lookupErr := s.connections.GetBetween(ctx, actor.ID, receiverID); lookupErr == nil {
				if conflict := existingConflict(current); conflict != nil {
					return nil, conflict
				}
			}
			return nil, ErrAlreadyPending
		}
		return nil, fmt.Errorf("create connection request: %w", err)
	}

	s.effects.Run(ctx, "notify connection request", func(ctx context.Context) error {
		_, err := s.notifier.Notify(ctx, models.UserRef(receiverID), actor, models.NotificationConnectionRequest, connectionEntity(conn))
		return err
	}, zap.Uint("connection_id", conn.ID))
	return conn, nil
}

// RespondToRequest lets the receiver accept or reject a PENDING request once.
func (s *ConnectionService) RespondToRequest(ctx context.Context, actor models.AccountRef, connectionID uint, accept bool) (*models.Connection, error) {
	conn, err := s.connections.GetByID(ctx, connectionID)
	if err != nil {
		return nil, storeError("connection request", err)
	}
	if !actor.IsUser() || conn.ReceiverID != actor.ID {
		return nil, ErrNotOwner
	}
	if conn.Status != models.ConnectionPending {
		return nil, ErrInvalidTransition
	}

	to := models.ConnectionRejected
	if accept {
		to = models.ConnectionAccepted
	}
	respondedAt := s.now()
	if err := s.connections.UpdateStatus(ctx, conn.ID, models.ConnectionPending, to, respondedAt); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("update connection: %w", err)
	}
	conn.Status = to
	conn.RespondedAt = &respondedAt

	if accept {
		s.effects.Run(ctx, "notify connection accepted", func(ctx context.Context) error {
			_, err := s.notifier.Notify(ctx, models.UserRef(conn.RequesterID), actor, models.NotificationConnectionAccepted, connectionEntity(conn))
			return err
		}, zap.Uint("connection_id", conn.ID))
	}
	return conn, nil
}

// RemoveConnection deletes the pair's row whatever its status and retracts
// the request and acceptance notifications between them.
func (s *ConnectionService) RemoveConnection(ctx context.Context, actor models.AccountRef, otherUserID uint) error {
	if !actor.IsUser() {
		return ErrUsersOnly
	}
	conn, err := s.connections.GetBetween(ctx, actor.ID, otherUserID)
	if err != nil {
		return storeError("connection", err)
	}
	if err := s.connections.Delete(ctx, conn.ID); err != nil {
		return storeError("connection", err)
	}

	s.effects.Run(ctx, "retract connection notifications", func(ctx context.Context) error {
		_, err := s.notifier.DeleteBetween(ctx, actor, models.UserRef(otherUserID), []models.NotificationType{
			models.NotificationConnectionRequest,
			models.NotificationConnectionAccepted,
		})
		return err
	}, zap.Uint("connection_id", conn.ID))
	return nil
}

func (s *ConnectionService) views(ctx context.Context, userID uint, conns []models.Connection) []models.ConnectionView {
	out := make([]models.ConnectionView, 0, len(conns))
	for i := range conns {
		c := &conns[i]
		out = append(out, models.ConnectionView{
			ID:          c.ID,
			Status:      c.Status,
			Counterpart: s.directory.SummaryOrStub(ctx, models.UserRef(c.Other(userID))),
			CreatedAt:   c.CreatedAt,
			RespondedAt: c.RespondedAt,
		})
	}
	return out
}

func (s *ConnectionService) ListConnections(ctx context.Context, userID uint) ([]models.ConnectionView, error) {
	conns, err := s.connections.ListAccepted(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	return s.views(ctx, userID, conns), nil
}

// ListPendingRequests returns requests waiting for userID's answer.
func (s *ConnectionService) ListPendingRequests(ctx context.Context, userID uint) ([]models.ConnectionView, error) {
	conns, err := s.connections.ListPendingReceived(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}
	return s.views(ctx, userID, conns), nil
}

func (s *ConnectionService) ListSentRequests(ctx context.Context, userID uint) ([]models.ConnectionView, error) {
	conns, err := s.connections.ListPendingSent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sent requests: %w", err)
	}
	return s.views(ctx, userID, conns), nil
}

// ConnectionStatus describes the relation from userID's point of view.
func (s *ConnectionService) ConnectionStatus(ctx context.Context, userID, otherID uint) (models.ConnectionStatusView, error) {
	conn, err := s.connections.GetBetween(ctx, userID, otherID)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.ConnectionStatusView{Status: "none"}, nil
	}
	if err != nil {
		return models.ConnectionStatusView{}, fmt.Errorf("lookup connection: %w", err)
	}

	view := models.ConnectionStatusView{ConnectionID: conn.ID}
	switch {
	case conn.Status == models.ConnectionAccepted:
		view.Status = "connected"
	case conn.Status == models.ConnectionRejected:
		view.Status = "rejected"
	case conn.RequesterID == userID:
		view.Status = "pending_sent"
	default:
		view.Status = "pending_received"
	}
	return view, nil
}

func (s *ConnectionService) AcceptedConnectionIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.connections.GetAcceptedConnectionIDs(ctx, userID)
}
