package hub

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *Hub {
	return New(log.New(io.Discard))
}

func TestRegisterUnregister(t *testing.T) {
	h := newTestHub()
	a := h.Register("alice")
	b := h.Register("bob")
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, h.Count())
	assert.Equal(t, 2, h.Board().Players)

	h.Unregister(a.ID)
	h.Unregister(uuid.New())
	assert.Equal(t, 1, h.Count())
	assert.Equal(t, 1, h.Board().Players)
}

func TestBoardOrdering(t *testing.T) {
	h := newTestHub()
	a := h.Register("alice")
	b := h.Register("bob")
	c := h.Register("carol")
	h.Register("dave")

	h.ReportScore(a.ID, 300)
	h.ReportScore(b.ID, 500)
	h.ReportScore(c.ID, 300)

	board := h.Board()
	require.Len(t, board.Top, 3, "players without a score are not listed")
	assert.Equal(t, []Standing{
		{Username: "bob", Score: 500},
		{Username: "alice", Score: 300},
		{Username: "carol", Score: 300},
	}, board.Top)
}

func TestReportScoreKeepsBest(t *testing.T) {
	h := newTestHub()
	a := h.Register("alice")
	h.ReportScore(a.ID, 300)
	h.ReportScore(a.ID, 100)
	assert.Equal(t, 300, h.Board().Top[0].Score)

	h.ReportScore(uuid.New(), 1000)
	assert.Len(t, h.Board().Top, 1)
}

func TestBoardIsCapped(t *testing.T) {
	h := newTestHub()
	for i := 0; i < BoardSize+3; i++ {
		s := h.Register("p")
		h.ReportScore(s.ID, 10*(i+1))
	}
	board := h.Board()
	assert.Len(t, board.Top, BoardSize)
	assert.Equal(t, BoardSize+3, board.Players)
	assert.Equal(t, 10*(BoardSize+3), board.Top[0].Score)
}

func TestSnapshotIsImmutable(t *testing.T) {
	h := newTestHub()
	a := h.Register("alice")
	h.ReportScore(a.ID, 50)
	before := h.Board()
	h.ReportScore(a.ID, 80)
	assert.Equal(t, 50, before.Top[0].Score)
	assert.Equal(t, 80, h.Board().Top[0].Score)
}

func TestShutdownNotifiesAndWaits(t *testing.T) {
	h := newTestHub()
	s := h.Register("alice")

	go func() {
		ev := <-s.Events
		if ev.Type == EventServerShutdown {
			h.Unregister(s.ID)
		}
	}()

	start := time.Now()
	h.Shutdown(5 * time.Second)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, 0, h.Count())
}

func TestShutdownTimesOut(t *testing.T) {
	h := newTestHub()
	h.Register("stuck")

	start := time.Now()
	h.Shutdown(100 * time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
	assert.Equal(t, 1, h.Count())
}
