package matchlog

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/esoccer-watchdog/internal/domain/match"
	matchmock "github.com/riskibarqy/esoccer-watchdog/internal/mocks/domain/match"
	"github.com/riskibarqy/esoccer-watchdog/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func TestFanOut_SinkFailureDoesNotFailFlush(t *testing.T) {
	t.Parallel()

	primary := matchmock.NewLogWriter(t)
	redisSink := matchmock.NewLogWriter(t)
	postgresSink := matchmock.NewLogWriter(t)
	snapshot := []match.Record{{ID: "1"}}

	primary.On("Append", mock.Anything, snapshot, "w1").Return(nil).Once()
	redisSink.On("Append", mock.Anything, snapshot, "w1").Return(errors.New("redis down")).Once()
	postgresSink.On("Append", mock.Anything, snapshot, "w1").Return(nil).Once()

	fanout := NewFanOut(primary, logging.NewNop(),
		Sink{Name: "redis", Writer: redisSink},
		Sink{Name: "postgres", Writer: postgresSink},
		Sink{Name: "disabled"},
	)
	if err := fanout.Append(context.Background(), snapshot, "w1"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestFanOut_PrimaryFailureIsReturned(t *testing.T) {
	t.Parallel()

	primary := matchmock.NewLogWriter(t)
	sink := matchmock.NewLogWriter(t)
	diskErr := errors.New("disk full")

	primary.On("Append", mock.Anything, mock.Anything, "w1").Return(diskErr).Once()
	sink.On("Append", mock.Anything, mock.Anything, "w1").Return(nil).Once()

	fanout := NewFanOut(primary, logging.NewNop(), Sink{Name: "redis", Writer: sink})
	if err := fanout.Append(context.Background(), nil, "w1"); !errors.Is(err, diskErr) {
		t.Fatalf("expected primary error, got %v", err)
	}
}
