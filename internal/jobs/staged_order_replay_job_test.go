package jobs_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStagedOrderReplayer struct{ mock.Mock }

func (m *MockStagedOrderReplayer) Handle(ctx context.Context, cmd commands.ReplayStagedOrdersCommand) (commands.ReplayStagedOrdersResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.ReplayStagedOrdersResult), args.Error(1)
}

type MockJob struct{ mock.Mock }

func (m *MockJob) Start() error { return m.Called().Error(0) }
func (m *MockJob) Stop()        { m.Called() }

func replayCommand(t *testing.T) commands.ReplayStagedOrdersCommand {
	t.Helper()
	cmd, err := commands.NewReplayStagedOrdersCommand(50, 5)
	require.NoError(t, err)
	return cmd
}

func TestStagedOrderReplayJob_Run(t *testing.T) {
	t.Run("should pass the configured batch", func(t *testing.T) {
		handler := new(MockStagedOrderReplayer)
		cmd := replayCommand(t)
		handler.On("Handle", mock.Anything, cmd).Return(commands.ReplayStagedOrdersResult{Selected: 2, Ingested: 2}, nil).Once()
		var logs bytes.Buffer

		jobs.NewStagedOrderReplayJob(handler, cmd, "", slog.New(slog.NewJSONHandler(&logs, nil))).Run()

		handler.AssertExpectations(t)
		assert.Contains(t, logs.String(), `"selected":2`)
	})

	t.Run("should log a failed batch", func(t *testing.T) {
		handler := new(MockStagedOrderReplayer)
		handler.On("Handle", mock.Anything, mock.Anything).Return(commands.ReplayStagedOrdersResult{}, errors.New("connection refused")).Once()
		var logs bytes.Buffer

		jobs.NewStagedOrderReplayJob(handler, replayCommand(t), "", slog.New(slog.NewJSONHandler(&logs, nil))).Run()

		assert.Contains(t, logs.String(), `"level":"ERROR"`)
		assert.Contains(t, logs.String(), "connection refused")
	})
}

func TestStagedOrderReplayJob_StartStop(t *testing.T) {
	t.Run("should reject an invalid schedule", func(t *testing.T) {
		job := jobs.NewStagedOrderReplayJob(new(MockStagedOrderReplayer), replayCommand(t), "every minute", slog.New(slog.DiscardHandler))

		require.Error(t, job.Start())
		job.Stop()
	})

	t.Run("should start once and stop cleanly", func(t *testing.T) {
		job := jobs.NewStagedOrderReplayJob(new(MockStagedOrderReplayer), replayCommand(t), "@every 1h", slog.New(slog.DiscardHandler))

		require.NoError(t, job.Start())
		require.NoError(t, job.Start())
		job.Stop()
		job.Stop()
	})
}

func TestJobManager(t *testing.T) {
	t.Run("should stop started jobs when one fails", func(t *testing.T) {
		first, second := new(MockJob), new(MockJob)
		first.On("Start").Return(nil).Once()
		first.On("Stop").Once()
		second.On("Start").Return(errors.New("bad schedule")).Once()

		err := jobs.NewJobManager(first, second).StartAll()

		require.ErrorContains(t, err, "bad schedule")
		first.AssertExpectations(t)
		second.AssertNotCalled(t, "Stop")
	})

	t.Run("should stop in reverse order", func(t *testing.T) {
		var order []string
		first, second := new(MockJob), new(MockJob)
		first.On("Stop").Run(func(mock.Arguments) { order = append(order, "first") }).Once()
		second.On("Stop").Run(func(mock.Arguments) { order = append(order, "second") }).Once()

		jobs.NewJobManager(first, second).StopAll()

		assert.Equal(t, []string{"second", "first"}, order)
	})
}
