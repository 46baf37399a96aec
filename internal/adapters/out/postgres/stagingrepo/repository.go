package stagingrepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxErrorLength bounds the stored last_error.
const maxErrorLength = 2000

// truncateError keeps at most maxErrorLength bytes of valid UTF-8, never splitting a rune.
func truncateError(msg string) string {
	msg = strings.ToValidUTF8(msg, "")
	if len(msg) <= maxErrorLength {
		return msg
	}
	return strings.ToValidUTF8(msg[:maxErrorLength], "")
}

// GormStagingRepository implements ports.StagingRepository using GORM.
type GormStagingRepository struct {
	db *gorm.DB
}

func NewGormStagingRepository(db *gorm.DB) *GormStagingRepository {
	return &GormStagingRepository{db: db}
}

func (r *GormStagingRepository) Add(ctx context.Context, staged *ports.StagedOrder) error {
	if staged == nil {
		return errs.NewValueIsRequiredError("staged order")
	}
	if staged.ID == uuid.Nil {
		staged.ID = uuid.New()
	}
	if staged.State == "" {
		staged.State = ports.StagedReceived
	}
	if staged.Payload == nil {
		staged.Payload = []byte{}
	}

	dto := fromDomain(staged)
	if dto.UpdatedAt.IsZero() {
		dto.UpdatedAt = dto.ReceivedAt
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormStagingRepository) Record(ctx context.Context, id uuid.UUID, outcome ports.StagedOutcome, at time.Time) error {
	var lastError *string
	if outcome.Error != nil {
		msg := truncateError(outcome.Error.Error())
		lastError = &msg
	}

	columns := map[string]any{
		"state":      string(outcome.State),
		"attempts":   gorm.Expr("attempts + 1"),
		"last_error": lastError,
		"updated_at": at,
	}
	if outcome.OrderID != nil {
		columns["order_id"] = *outcome.OrderID
	}

	result := r.db.WithContext(ctx).Model(&StagedOrderDTO{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("staged order", id)
	}
	return nil
}

func (r *GormStagingRepository) Get(ctx context.Context, id uuid.UUID) (*ports.StagedOrder, error) {
	var dto StagedOrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("staged order", id)
		}
		return nil, err
	}
	return toDomain(dto), nil
}

func (r *GormStagingRepository) ListReplayable(ctx context.Context, limit, maxAttempts int) ([]*ports.StagedOrder, error) {
	var dtos []StagedOrderDTO
	err := r.db.WithContext(ctx).
		Where("state = ? AND attempts < ?", string(ports.StagedFailed), maxAttempts).
		Order("received_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	staged := make([]*ports.StagedOrder, 0, len(dtos))
	for _, dto := range dtos {
		staged = append(staged, toDomain(dto))
	}
	return staged, nil
}
