package pipeline

import (
	"testing"
	"time"

	"github.com/simaogato/priorityflow-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue(0)
	for _, id := range []string{"A", "B", "C"} {
		q.Push(EventItem(domain.Event{AssetID: id}))
	}
	q.Push(TerminationItem())

	assert.Equal(t, 4, q.Len())
	assert.Equal(t, "A", q.Pop().Event.AssetID)
	assert.Equal(t, "B", q.Pop().Event.AssetID)
	assert.Equal(t, "C", q.Pop().Event.AssetID)
	assert.Equal(t, ItemTermination, q.Pop().Kind)
	assert.Equal(t, 0, q.Len())
}

func TestQueue_UnboundedNeverBlocksProducer(t *testing.T) {
	q := NewQueue(0)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10000; i++ {
			q.Push(EventItem(domain.Event{PriorityBump: i}))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("push blocked on an unbounded queue")
	}
	assert.Equal(t, 10000, q.Len())
	assert.Equal(t, 0, q.Capacity())
}

func TestQueue_PopBlocksUntilPush(t *testing.T) {
	q := NewQueue(0)
	got := make(chan Item, 1)
	go func() { got <- q.Pop() }()

	select {
	case <-got:
		t.Fatal("pop returned on an empty queue")
	case <-time.After(50 * time.Millisecond):
	}

	q.Push(EventItem(domain.Event{AssetID: "late"}))
	select {
	case item := <-got:
		assert.Equal(t, "late", item.Event.AssetID)
	case <-time.After(time.Second):
		t.Fatal("pop did not wake after push")
	}
}

func TestQueue_BoundedBlocksWithoutDropping(t *testing.T) {
	q := NewQueue(2)
	q.Push(EventItem(domain.Event{AssetID: "1"}))
	q.Push(EventItem(domain.Event{AssetID: "2"}))

	pushed := make(chan struct{})
	go func() {
		q.Push(EventItem(domain.Event{AssetID: "3"}))
		close(pushed)
	}()

	select {
	case <-pushed:
		t.Fatal("push did not block on a full queue")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, 2, q.Len())

	require.Equal(t, "1", q.Pop().Event.AssetID)
	select {
	case <-pushed:
	case <-time.After(time.Second):
		t.Fatal("blocked push did not resume after pop")
	}
	assert.Equal(t, "2", q.Pop().Event.AssetID)
	assert.Equal(t, "3", q.Pop().Event.AssetID)
}

func TestQueue_NegativeCapacityIsUnbounded(t *testing.T) {
	assert.Equal(t, 0, NewQueue(-5).Capacity())
}

func TestItemKind_String(t *testing.T) {
	assert.Equal(t, "event", ItemEvent.String())
	assert.Equal(t, "termination", ItemTermination.String())
	assert.Equal(t, "unknown", ItemKind(0).String())
}
