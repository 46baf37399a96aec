// Package commands contains the operations that change state: order ingestion,
// status recording and the replay of staged payloads. Every handler owns one unit
// of work per call and rolls it back unless it committed.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

type (
	// TxManager handles the transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	CustomerRepoFactory interface {
		CustomerRepository() ports.CustomerRepository
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	StatusAuditRepoFactory interface {
		StatusAuditRepository() ports.StatusAuditRepository
	}

	StagingRepoFactory interface {
		StagingRepository() ports.StagingRepository
	}

	// IngestionUoW spans every table an order ingestion writes.
	IngestionUoW interface {
		TxManager
		CustomerRepoFactory
		OrderRepoFactory
		StatusAuditRepoFactory
	}

	IngestionUoWFactory interface {
		Create() IngestionUoW
	}

	// StatusUoW locks an order or line item and appends to its status history.
	StatusUoW interface {
		TxManager
		OrderRepoFactory
		StatusAuditRepoFactory
	}

	StatusUoWFactory interface {
		Create() StatusUoW
	}

	// StagingUoW writes the ingestion log in transactions of its own, so staged
	// payloads survive a rolled back ingestion.
	StagingUoW interface {
		TxManager
		StagingRepoFactory
	}

	StagingUoWFactory interface {
		Create() StagingUoW
	}
)
