package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/proconnect/backend/internal/models"
	"gorm.io/gorm"
)

// ConnectionRepository defines the interface for the social graph
type ConnectionRepository interface {
	// CreateRequest inserts a PENDING row. A REJECTED row for the same pair is
	// replaced; any other existing row yields ErrDuplicate.
	CreateRequest(ctx context.Context, conn *models.Connection) error
	GetByID(ctx context.Context, id uint) (*models.Connection, error)
	GetBetween(ctx context.Context, a, b uint) (*models.Connection, error)
	ListAccepted(ctx context.Context, userID uint) ([]models.Connection, error)
	GetAcceptedConnectionIDs(ctx context.Context, userID uint) ([]uint, error)
	ListPendingReceived(ctx context.Context, userID uint) ([]models.Connection, error)
	ListPendingSent(ctx context.Context, userID uint) ([]models.Connection, error)
	// UpdateStatus moves a connection from one status to another; ErrNotFound
	// when the row is gone or no longer in the from status.
	UpdateStatus(ctx context.Context, id uint, from, to models.ConnectionStatus, respondedAt time.Time) error
	Delete(ctx context.Context, id uint) error
}

// PostgresConnectionRepository implements ConnectionRepository for PostgreSQL
type PostgresConnectionRepository struct {
	db *gorm.DB
}

// NewPostgresConnectionRepository creates a new PostgresConnectionRepository
func NewPostgresConnectionRepository(db *gorm.DB) *PostgresConnectionRepository {
	return &PostgresConnectionRepository{db: db}
}

func (r *PostgresConnectionRepository) CreateRequest(ctx context.Context, conn *models.Connection) error {
	conn.PairKey = models.ConnectionPairKey(conn.RequesterID, conn.ReceiverID)
	conn.Status = models.ConnectionPending
	conn.RespondedAt = nil

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Connection
		err := tx.Where("pair_key = ?", conn.PairKey).First(&existing).Error
		switch {
		case err == nil:
			if existing.Status != models.ConnectionRejected {
				return ErrDuplicate
			}
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
		// the unique pair_key index still guards against a concurrent insert
		return translateGormError(tx.Create(conn).Error)
	})
}

func (r *PostgresConnectionRepository) GetByID(ctx context.Context, id uint) (*models.Connection, error) {
	var conn models.Connection
	if err := r.db.WithContext(ctx).First(&conn, id).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &conn, nil
}

// GetBetween looks the pair up in either direction
func (r *PostgresConnectionRepository) GetBetween(ctx context.Context, a, b uint) (*models.Connection, error) {
	var conn models.Connection
	err := r.db.WithContext(ctx).Where("pair_key = ?", models.ConnectionPairKey(a, b)).First(&conn).Error
	if err != nil {
		return nil, translateGormError(err)
	}
	return &conn, nil
}

func (r *PostgresConnectionRepository) ListAccepted(ctx context.Context, userID uint) ([]models.Connection, error) {
	var conns []models.Connection
	err := r.db.WithContext(ctx).
		Where("(requester_id = ? OR receiver_id = ?) AND status = ?", userID, userID, models.ConnectionAccepted).
		Order("responded_at DESC").
		Find(&conns).Error
	return conns, err
}

// GetAcceptedConnectionIDs returns the counterpart ids of every accepted connection
func (r *PostgresConnectionRepository) GetAcceptedConnectionIDs(ctx context.Context, userID uint) ([]uint, error) {
	conns, err := r.ListAccepted(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(conns))
	for i := range conns {
		ids = append(ids, conns[i].Other(userID))
	}
	return ids, nil
}

func (r *PostgresConnectionRepository) ListPendingReceived(ctx context.Context, userID uint) ([]models.Connection, error) {
	var conns []models.Connection
	err := r.db.WithContext(ctx).
		Where("receiver_id = ? AND status = ?", userID, models.ConnectionPending).
		Order("created_at DESC").
		Find(&conns).Error
	return conns, err
}

func (r *PostgresConnectionRepository) ListPendingSent(ctx context.Context, userID uint) ([]models.Connection, error) {
	var conns []models.Connection
	err := r.db.WithContext(ctx).
		Where("requester_id = ? AND status = ?", userID, models.ConnectionPending).
		Order("created_at DESC").
		Find(&conns).Error
	return conns, err
}

func (r *PostgresConnectionRepository) UpdateStatus(ctx context.Context, id uint, from, to models.ConnectionStatus, respondedAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.Connection{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "responded_at": respondedAt})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresConnectionRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Connection{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
