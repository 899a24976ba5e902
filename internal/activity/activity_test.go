package activity

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherFansOut(t *testing.T) {
	var got []Type
	d := NewDispatcher(func(_ context.Context, a Activity) error {
		got = append(got, a.Type)
		return nil
	})
	d.Subscribe(func(context.Context, Activity) error { return errors.New("second handler down") })

	err := d.Publish(context.Background(), Activity{Type: RSVPUpdated})
	assert.Error(t, err)
	assert.Equal(t, []Type{RSVPUpdated}, got)
}

func TestEmitStampsAndSkipsEmptyRecipients(t *testing.T) {
	var got []Activity
	d := NewDispatcher(func(_ context.Context, a Activity) error {
		got = append(got, a)
		return nil
	})

	Emit(context.Background(), d, Activity{Type: CommentCreated, EventID: 1})
	assert.Empty(t, got)

	Emit(context.Background(), d, Activity{Type: CommentCreated, EventID: 1, RecipientIDs: []uint{2}})
	require.Len(t, got, 1)
	assert.NotEmpty(t, got[0].ID)
	assert.False(t, got[0].OccurredAt.IsZero())

	// publisher errors are swallowed
	Emit(context.Background(), NewDispatcher(func(context.Context, Activity) error {
		return errors.New("down")
	}), Activity{Type: CommentCreated, RecipientIDs: []uint{2}})
}

type fakeReader struct {
	msgs      []kafka.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func TestConsume(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	good, err := json.Marshal(Activity{Type: EventUpdated, EventID: 9, RecipientIDs: []uint{1, 2}})
	require.NoError(t, err)

	reader := &fakeReader{
		msgs: []kafka.Message{
			{Offset: 1, Value: []byte("{not json")},
			{Offset: 2, Value: good},
		},
		cancel: cancel,
	}

	var handled []Activity
	err = Consume(ctx, reader, func(_ context.Context, a Activity) error {
		handled = append(handled, a)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, handled, 1)
	assert.Equal(t, EventUpdated, handled[0].Type)
	assert.Equal(t, []uint{1, 2}, handled[0].RecipientIDs)
	assert.Equal(t, []int64{1, 2}, reader.committed)
}

// flakyReader fails the first fetches before handing over to next.
type flakyReader struct {
	*fakeReader
	failures int
	fetches  int
}

func (r *flakyReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.fetches++
	if r.failures > 0 {
		r.failures--
		return kafka.Message{}, errors.New("broker unavailable")
	}
	return r.fakeReader.FetchMessage(ctx)
}

func TestConsumeWithRetry(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	payload, err := json.Marshal(Activity{Type: CommentCreated, EventID: 4, RecipientIDs: []uint{7}})
	require.NoError(t, err)

	reader := &flakyReader{
		fakeReader: &fakeReader{msgs: []kafka.Message{{Offset: 5, Value: payload}}, cancel: cancel},
		failures:   3,
	}

	var handled []Activity
	done := make(chan struct{})
	go func() {
		defer close(done)
		ConsumeWithRetry(ctx, reader, func(_ context.Context, a Activity) error {
			handled = append(handled, a)
			return nil
		}, time.Millisecond, 4*time.Millisecond)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop after cancellation")
	}

	require.Len(t, handled, 1)
	assert.Equal(t, CommentCreated, handled[0].Type)
	assert.Equal(t, []int64{5}, reader.committed)
	assert.Equal(t, 5, reader.fetches)
}

func TestConsumeWithRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	reader := &flakyReader{fakeReader: &fakeReader{cancel: cancel}, failures: 1 << 30}

	done := make(chan struct{})
	go func() {
		defer close(done)
		ConsumeWithRetry(ctx, reader, func(context.Context, Activity) error { return nil }, time.Millisecond, time.Hour)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer kept retrying after cancellation")
	}
	assert.Greater(t, reader.fetches, 1)
}
