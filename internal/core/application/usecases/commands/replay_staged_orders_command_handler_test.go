package commands_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStagedOrderReplayer struct{ mock.Mock }

func (m *MockStagedOrderReplayer) Replay(ctx context.Context, staged *ports.StagedOrder) (commands.IngestPayloadResult, error) {
	args := m.Called(ctx, staged)
	return args.Get(0).(commands.IngestPayloadResult), args.Error(1)
}

func stagedEntries(n int) []*ports.StagedOrder {
	entries := make([]*ports.StagedOrder, 0, n)
	for i := range n {
		entries = append(entries, &ports.StagedOrder{
			ID:         uuid.New(),
			ReceivedAt: time.Date(2024, 12, 20, 2, i, 0, 0, time.UTC),
			State:      ports.StagedFailed,
			Attempts:   1,
		})
	}
	return entries
}

func replayMocks(entries []*ports.StagedOrder, listErr error) (*MockStagingUoWFactory, *MockStagingRepository) {
	staging := new(MockStagingRepository)
	uow := new(MockUoW)
	factory := new(MockStagingUoWFactory)
	factory.On("Create").Return(uow).Once()
	uow.On("StagingRepository").Return(staging).Once()
	staging.On("ListReplayable", mock.Anything, 10, 5).Return(entries, listErr).Once()
	return factory, staging
}

func TestNewReplayStagedOrdersCommand(t *testing.T) {
	t.Run("should keep its bounds", func(t *testing.T) {
		cmd, err := commands.NewReplayStagedOrdersCommand(10, 5)

		require.NoError(t, err)
		assert.Equal(t, 10, cmd.BatchSize())
		assert.Equal(t, 5, cmd.MaxAttempts())
	})

	t.Run("should reject non-positive bounds", func(t *testing.T) {
		_, err := commands.NewReplayStagedOrdersCommand(0, -1)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Contains(t, err.Error(), "batch size")
		assert.Contains(t, err.Error(), "max attempts")
	})
}

func TestReplayStagedOrdersCommandHandler_Handle_CountsOutcomes(t *testing.T) {
	ctx := t.Context()
	entries := stagedEntries(4)
	factory, staging := replayMocks(entries, nil)
	replayer := new(MockStagedOrderReplayer)
	var logs bytes.Buffer

	replayer.On("Replay", ctx, entries[0]).Return(commands.IngestPayloadResult{State: ports.StagedIngested}, nil).Once()
	replayer.On("Replay", ctx, entries[1]).Return(commands.IngestPayloadResult{State: ports.StagedDuplicate}, commands.ErrOrderAlreadyIngested).Once()
	replayer.On("Replay", ctx, entries[2]).Return(commands.IngestPayloadResult{State: ports.StagedRejected}, errs.NewValueIsInvalidError("email")).Once()
	replayer.On("Replay", ctx, entries[3]).Return(commands.IngestPayloadResult{State: ports.StagedFailed}, errors.New("connection reset")).Once()

	cmd, err := commands.NewReplayStagedOrdersCommand(10, 5)
	require.NoError(t, err)

	result, err := commands.NewReplayStagedOrdersCommandHandler(factory, replayer, 2, slog.New(slog.NewJSONHandler(&logs, nil))).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, commands.ReplayStagedOrdersResult{Selected: 4, Ingested: 1, Duplicates: 1, Rejected: 1, Failed: 1}, result)
	assert.Contains(t, logs.String(), "connection reset")
	assert.Contains(t, logs.String(), "staged order replay finished")
	assert.NotContains(t, logs.String(), commands.ErrOrderAlreadyIngested.Error())
	replayer.AssertExpectations(t)
	staging.AssertExpectations(t)
}

func TestReplayStagedOrdersCommandHandler_Handle_RespectsConcurrency(t *testing.T) {
	ctx := t.Context()
	entries := stagedEntries(6)
	factory, _ := replayMocks(entries, nil)
	replayer := new(MockStagedOrderReplayer)

	var running, peak atomic.Int32
	replayer.On("Replay", ctx, mock.Anything).Run(func(mock.Arguments) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		running.Add(-1)
	}).Return(commands.IngestPayloadResult{State: ports.StagedIngested}, nil).Times(6)

	cmd, err := commands.NewReplayStagedOrdersCommand(10, 5)
	require.NoError(t, err)

	result, err := commands.NewReplayStagedOrdersCommandHandler(factory, replayer, 2, slog.New(slog.DiscardHandler)).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 6, result.Ingested)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestReplayStagedOrdersCommandHandler_Handle_EmptyBatch(t *testing.T) {
	factory, _ := replayMocks(nil, nil)
	replayer := new(MockStagedOrderReplayer)

	cmd, err := commands.NewReplayStagedOrdersCommand(10, 5)
	require.NoError(t, err)

	result, err := commands.NewReplayStagedOrdersCommandHandler(factory, replayer, 0, slog.New(slog.DiscardHandler)).Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.Zero(t, result)
	replayer.AssertNotCalled(t, "Replay", mock.Anything, mock.Anything)
}

func TestReplayStagedOrdersCommandHandler_Handle_ListError(t *testing.T) {
	factory, _ := replayMocks(nil, errors.New("connection refused"))

	cmd, err := commands.NewReplayStagedOrdersCommand(10, 5)
	require.NoError(t, err)

	_, err = commands.NewReplayStagedOrdersCommandHandler(factory, new(MockStagedOrderReplayer), 1, slog.New(slog.DiscardHandler)).Handle(t.Context(), cmd)

	require.EqualError(t, err, "connection refused")
}

func TestReplayStagedOrdersCommandHandler_Handle_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	factory, _ := replayMocks(stagedEntries(3), nil)
	replayer := new(MockStagedOrderReplayer)

	cmd, err := commands.NewReplayStagedOrdersCommand(10, 5)
	require.NoError(t, err)

	_, err = commands.NewReplayStagedOrdersCommandHandler(factory, replayer, 1, slog.New(slog.DiscardHandler)).Handle(ctx, cmd)

	require.ErrorIs(t, err, context.Canceled)
	replayer.AssertNotCalled(t, "Replay", mock.Anything, mock.Anything)
}
