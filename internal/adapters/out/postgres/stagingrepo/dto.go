// Package stagingrepo keeps raw order payloads in order_ingestion_log.
package stagingrepo

import (
	"time"

	"fulfillment/internal/core/ports"

	"github.com/google/uuid"
)

// StagedOrderDTO is one row of order_ingestion_log. Payload is bytea because
// rejected payloads are not necessarily valid JSON.
type StagedOrderDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ReceivedAt  time.Time `gorm:"not null"`
	ExternalID  *int64
	OrderNumber *string `gorm:"type:text;index"`
	Payload     []byte  `gorm:"type:bytea;not null"`
	State       string  `gorm:"type:text;not null;index"`
	Attempts    int     `gorm:"not null;default:0"`
	LastError   *string `gorm:"type:text"`
	OrderID     *int64
	UpdatedAt   time.Time
}

func (StagedOrderDTO) TableName() string {
	return "order_ingestion_log"
}

func fromDomain(s *ports.StagedOrder) StagedOrderDTO {
	return StagedOrderDTO{
		ID:          s.ID,
		ReceivedAt:  s.ReceivedAt,
		ExternalID:  s.ExternalID,
		OrderNumber: s.OrderNumber,
		Payload:     s.Payload,
		State:       string(s.State),
		Attempts:    s.Attempts,
		LastError:   s.LastError,
		OrderID:     s.OrderID,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toDomain(dto StagedOrderDTO) *ports.StagedOrder {
	return &ports.StagedOrder{
		ID:          dto.ID,
		ReceivedAt:  dto.ReceivedAt,
		ExternalID:  dto.ExternalID,
		OrderNumber: dto.OrderNumber,
		Payload:     dto.Payload,
		State:       ports.StagedState(dto.State),
		Attempts:    dto.Attempts,
		LastError:   dto.LastError,
		OrderID:     dto.OrderID,
		UpdatedAt:   dto.UpdatedAt,
	}
}
