package commands_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/core/application/intake"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderIngester struct{ mock.Mock }

func (m *MockOrderIngester) Handle(ctx context.Context, cmd commands.IngestOrderCommand) (commands.IngestOrderResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.IngestOrderResult), args.Error(1)
}

type payloadMocks struct {
	staging  *MockStagingRepository
	uow      *MockUoW
	factory  *MockStagingUoWFactory
	ingester *MockOrderIngester
	logs     *bytes.Buffer
	handler  *commands.IngestPayloadCommandHandler
}

func newPayloadMocks(t *testing.T, withStaging bool) payloadMocks {
	t.Helper()

	m := payloadMocks{
		staging:  new(MockStagingRepository),
		uow:      new(MockUoW),
		factory:  new(MockStagingUoWFactory),
		ingester: new(MockOrderIngester),
		logs:     new(bytes.Buffer),
	}
	normalizer, err := intake.NewNormalizer()
	require.NoError(t, err)

	var staging commands.StagingUoWFactory
	if withStaging {
		staging = m.factory
		m.factory.On("Create").Return(m.uow)
		m.uow.On("Begin", mock.Anything).Return(nil)
		m.uow.On("StagingRepository").Return(m.staging)
		m.uow.On("Rollback", mock.Anything).Return(nil)
	}
	m.handler = commands.NewIngestPayloadCommandHandler(
		staging, normalizer, m.ingester, actor, slog.New(slog.NewJSONHandler(m.logs, nil)),
	)
	return m
}

func storedIngestResult(t *testing.T) commands.IngestOrderResult {
	t.Helper()
	return commands.IngestOrderResult{Order: storedOrder(t, order.StatusPending), CustomerID: 7}
}

func payloadCommand(t *testing.T, payload []byte) commands.IngestPayloadCommand {
	t.Helper()
	cmd, err := commands.NewIngestPayloadCommand(payload, time.Date(2024, 12, 20, 2, 15, 0, 123456789, time.UTC))
	require.NoError(t, err)
	return cmd
}

func TestNewIngestPayloadCommand(t *testing.T) {
	t.Run("should require a body", func(t *testing.T) {
		_, err := commands.NewIngestPayloadCommand([]byte("  \n"), time.Now())
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should require the receive time", func(t *testing.T) {
		_, err := commands.NewIngestPayloadCommand([]byte("{}"), time.Time{})
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should own a copy of the body", func(t *testing.T) {
		body := []byte(`{"id":1}`)
		cmd, err := commands.NewIngestPayloadCommand(body, time.Now())
		require.NoError(t, err)

		body[0] = '['

		assert.Equal(t, `{"id":1}`, string(cmd.Payload()))
	})
}

func TestIngestPayloadCommandHandler_Handle_Ingested(t *testing.T) {
	ctx := t.Context()
	m := newPayloadMocks(t, true)

	var staged *ports.StagedOrder
	m.staging.On("Add", mock.Anything, mock.AnythingOfType("*ports.StagedOrder")).Run(func(args mock.Arguments) {
		staged = args.Get(1).(*ports.StagedOrder)
	}).Return(nil).Once()
	m.uow.On("Commit", mock.Anything).Return(nil).Twice()
	m.ingester.On("Handle", ctx, mock.MatchedBy(func(cmd commands.IngestOrderCommand) bool {
		return cmd.Actor() == actor && cmd.Aggregate().Order.OrderNumber == "100000"
	})).Return(storedIngestResult(t), nil).Once()
	m.staging.On("Record", mock.Anything, mock.AnythingOfType("uuid.UUID"), mock.MatchedBy(func(o ports.StagedOutcome) bool {
		return o.State == ports.StagedIngested && o.OrderID != nil && *o.OrderID == 5001 && o.Error == nil
	}), mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := m.handler.Handle(ctx, payloadCommand(t, orderPayload(t, nil)))

	require.NoError(t, err)
	assert.Equal(t, ports.StagedIngested, result.State)
	assert.Equal(t, int64(5001), result.Ingested.Order.ID())
	require.NotNil(t, staged)
	require.NotNil(t, result.StagedID)
	assert.Equal(t, staged.ID, *result.StagedID)
	assert.Equal(t, ports.StagedReceived, staged.State)
	assert.Equal(t, int64(5812345678901), *staged.ExternalID)
	assert.Equal(t, "100000", *staged.OrderNumber)
	assert.Equal(t, time.Date(2024, 12, 20, 2, 15, 0, 123456000, time.UTC), staged.ReceivedAt)
	m.staging.AssertExpectations(t)
	m.ingester.AssertExpectations(t)
}

func TestIngestPayloadCommandHandler_Handle_Outcomes(t *testing.T) {
	tests := []struct {
		name      string
		payload   func(t *testing.T) []byte
		ingestErr error
		state     ports.StagedState
		errIs     error
		keepsErr  bool
	}{
		{
			name:     "rejects an invalid payload without ingesting",
			payload:  func(t *testing.T) []byte { return []byte(`{"id": "nope"}`) },
			state:    ports.StagedRejected,
			errIs:    intake.ErrPayloadIsInvalid,
			keepsErr: true,
		},
		{
			name:      "marks a known order number as duplicate",
			payload:   func(t *testing.T) []byte { return orderPayload(t, nil) },
			ingestErr: commands.ErrOrderAlreadyIngested,
			state:     ports.StagedDuplicate,
			errIs:     commands.ErrOrderAlreadyIngested,
		},
		{
			name:      "marks a storage failure as failed",
			payload:   func(t *testing.T) []byte { return orderPayload(t, nil) },
			ingestErr: errors.New("connection reset"),
			state:     ports.StagedFailed,
			keepsErr:  true,
		},
		{
			name:      "rejects a domain validation error",
			payload:   func(t *testing.T) []byte { return orderPayload(t, nil) },
			ingestErr: errs.NewValueIsRequiredError("customer id"),
			state:     ports.StagedRejected,
			errIs:     errs.ErrValueIsRequired,
			keepsErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			m := newPayloadMocks(t, true)

			m.staging.On("Add", mock.Anything, mock.Anything).Return(nil).Once()
			m.uow.On("Commit", mock.Anything).Return(nil)
			if tt.ingestErr != nil {
				m.ingester.On("Handle", ctx, mock.Anything).Return(commands.IngestOrderResult{}, tt.ingestErr).Once()
			}
			var outcome ports.StagedOutcome
			m.staging.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
				outcome = args.Get(2).(ports.StagedOutcome)
			}).Return(nil).Once()

			result, err := m.handler.Handle(ctx, payloadCommand(t, tt.payload(t)))

			require.Error(t, err)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
			}
			assert.Equal(t, tt.state, result.State)
			assert.Equal(t, tt.state, outcome.State)
			assert.Nil(t, outcome.OrderID)
			if tt.keepsErr {
				assert.Error(t, outcome.Error)
			} else {
				assert.NoError(t, outcome.Error)
			}
			m.ingester.AssertExpectations(t)
		})
	}
}

func TestIngestPayloadCommandHandler_Handle_StagingDisabled(t *testing.T) {
	ctx := t.Context()
	m := newPayloadMocks(t, false)
	m.ingester.On("Handle", ctx, mock.Anything).Return(storedIngestResult(t), nil).Once()

	result, err := m.handler.Handle(ctx, payloadCommand(t, orderPayload(t, nil)))

	require.NoError(t, err)
	assert.Nil(t, result.StagedID)
	assert.Equal(t, ports.StagedIngested, result.State)
	m.factory.AssertNotCalled(t, "Create")
}

func TestIngestPayloadCommandHandler_Handle_StagingFailureStopsIngestion(t *testing.T) {
	ctx := t.Context()
	m := newPayloadMocks(t, true)
	m.staging.On("Add", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	_, err := m.handler.Handle(ctx, payloadCommand(t, orderPayload(t, nil)))

	require.EqualError(t, err, "disk full")
	m.ingester.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	m.uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestIngestPayloadCommandHandler_Handle_RecordFailureIsLogged(t *testing.T) {
	ctx := t.Context()
	m := newPayloadMocks(t, true)
	m.staging.On("Add", mock.Anything, mock.Anything).Return(nil).Once()
	m.uow.On("Commit", mock.Anything).Return(nil).Once()
	m.ingester.On("Handle", ctx, mock.Anything).Return(storedIngestResult(t), nil).Once()
	m.staging.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("connection reset")).Once()

	result, err := m.handler.Handle(ctx, payloadCommand(t, orderPayload(t, nil)))

	require.NoError(t, err)
	assert.Equal(t, ports.StagedIngested, result.State)
	assert.Contains(t, m.logs.String(), `"level":"ERROR"`)
	assert.Contains(t, m.logs.String(), "failed to record ingestion outcome")
	assert.Contains(t, m.logs.String(), result.StagedID.String())
}

func TestIngestPayloadCommandHandler_Replay(t *testing.T) {
	t.Run("should require the staged entry", func(t *testing.T) {
		m := newPayloadMocks(t, true)

		_, err := m.handler.Replay(t.Context(), nil)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should record the new attempt on the same entry", func(t *testing.T) {
		ctx := t.Context()
		m := newPayloadMocks(t, true)
		staged := &ports.StagedOrder{ID: uuid.New(), Payload: orderPayload(t, nil), State: ports.StagedFailed, Attempts: 1}
		m.uow.On("Commit", mock.Anything).Return(nil).Once()
		m.ingester.On("Handle", ctx, mock.Anything).Return(storedIngestResult(t), nil).Once()
		m.staging.On("Record", mock.Anything, staged.ID, mock.Anything, mock.Anything).Return(nil).Once()

		result, err := m.handler.Replay(ctx, staged)

		require.NoError(t, err)
		assert.Equal(t, staged.ID, *result.StagedID)
		m.staging.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
		m.staging.AssertExpectations(t)
	})
}
