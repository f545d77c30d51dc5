package inbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempmail/bot/internal/domain"
	"tempmail/bot/internal/mailtm"
	"tempmail/bot/internal/storage/memory"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeMail 模拟 mail.tm，按给定顺序返回列表
type fakeMail struct {
	mu       sync.Mutex
	list     []mailtm.MessageSummary
	bodies   map[string]string
	listErr  error
	fetchErr map[string]error
	fetched  []string
}

func (f *fakeMail) Messages(_ context.Context, _ string) ([]mailtm.MessageSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]mailtm.MessageSummary, len(f.list))
	copy(out, f.list)
	return out, nil
}

func (f *fakeMail) Message(_ context.Context, _ string, id string) (*mailtm.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fetchErr[id]; err != nil {
		return nil, err
	}
	f.fetched = append(f.fetched, id)
	for _, s := range f.list {
		if s.ID == id {
			return &mailtm.Message{MessageSummary: s, Text: f.bodies[id]}, nil
		}
	}
	return nil, &mailtm.APIError{Endpoint: "message", Status: 404}
}

func summary(id string, minutes int) mailtm.MessageSummary {
	return mailtm.MessageSummary{ID: id, Subject: "subject " + id, CreatedAt: base.Add(time.Duration(minutes) * time.Minute)}
}

func ids(msgs []NewMessage) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Message.ID)
	}
	return out
}

func seedWatermark(t *testing.T, store *memory.Store, address string, s mailtm.MessageSummary) {
	t.Helper()
	require.NoError(t, store.SetWatermark(context.Background(), &domain.Watermark{
		Address:          address,
		MessageID:        s.ID,
		MessageCreatedAt: s.CreatedAt,
	}))
}

func TestPoll_DeliversNewMessagesOldestFirst(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	mail := &fakeMail{
		list:   []mailtm.MessageSummary{summary("msg-12", 12), summary("msg-11", 11), summary("msg-10", 10)},
		bodies: map[string]string{"msg-11": "your code is 482913", "msg-12": "hello"},
	}
	seedWatermark(t, store, "abc123@example.org", summary("msg-10", 10))

	msgs, err := NewDetector(mail, store, nil).Poll(ctx, "abc123@example.org", "tok")
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"msg-11", "msg-12"}, ids(msgs)); diff != "" {
		t.Fatalf("delivered order mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "482913", msgs[0].OTP)
	assert.False(t, msgs[1].HasOTP())

	wm, err := store.GetWatermark(ctx, "abc123@example.org")
	require.NoError(t, err)
	assert.Equal(t, "msg-12", wm.MessageID)
}

func TestPoll_FirstPollSetsBaselineOnly(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	mail := &fakeMail{list: []mailtm.MessageSummary{summary("a", 3), summary("b", 2), summary("c", 1)}}

	msgs, err := NewDetector(mail, store, nil).Poll(ctx, "x@example.org", "tok")
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.Empty(t, mail.fetched)

	wm, err := store.GetWatermark(ctx, "x@example.org")
	require.NoError(t, err)
	assert.Equal(t, "a", wm.MessageID)
}

func TestPoll_EmptyInboxSetsEmptyBaseline(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	msgs, err := NewDetector(&fakeMail{}, store, nil).Poll(ctx, "x@example.org", "tok")
	require.NoError(t, err)
	assert.Empty(t, msgs)

	wm, err := store.GetWatermark(ctx, "x@example.org")
	require.NoError(t, err)
	assert.Empty(t, wm.MessageID)
	assert.True(t, wm.MessageCreatedAt.IsZero())
}

func TestPoll_FirstMailAfterEmptyFirstPollIsDelivered(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	mail := &fakeMail{}
	d := NewDetector(mail, store, nil)

	msgs, err := d.Poll(ctx, "x@example.org", "tok")
	require.NoError(t, err)
	assert.Empty(t, msgs)

	mail.mu.Lock()
	mail.list = []mailtm.MessageSummary{summary("m1", 1)}
	mail.bodies = map[string]string{"m1": "your code is 123456"}
	mail.mu.Unlock()

	msgs, err = d.Poll(ctx, "x@example.org", "tok")
	require.NoError(t, err)
	require.Equal(t, []string{"m1"}, ids(msgs))
	assert.Equal(t, "123456", msgs[0].OTP)

	wm, err := store.GetWatermark(ctx, "x@example.org")
	require.NoError(t, err)
	assert.Equal(t, "m1", wm.MessageID)

	msgs, err = d.Poll(ctx, "x@example.org", "tok")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestPoll_FetchFailureDoesNotAdvance(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	mail := &fakeMail{
		list:     []mailtm.MessageSummary{summary("m3", 3), summary("m2", 2), summary("m1", 1)},
		fetchErr: map[string]error{"m3": errors.New("connection reset")},
	}
	seedWatermark(t, store, "x@example.org", summary("m1", 1))
	d := NewDetector(mail, store, nil)

	_, err := d.Poll(ctx, "x@example.org", "tok")
	require.Error(t, err)
	wm, err := store.GetWatermark(ctx, "x@example.org")
	require.NoError(t, err)
	assert.Equal(t, "m1", wm.MessageID)

	// 下一轮恢复后同样的邮件会再次投递
	mail.fetchErr = nil
	msgs, err := d.Poll(ctx, "x@example.org", "tok")
	require.NoError(t, err)
	assert.Equal(t, []string{"m2", "m3"}, ids(msgs))
}

func TestPoll_ListFailureDoesNotAdvance(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedWatermark(t, store, "x@example.org", summary("m1", 1))
	mail := &fakeMail{listErr: &mailtm.APIError{Endpoint: "messages", Status: 502}}

	_, err := NewDetector(mail, store, nil).Poll(ctx, "x@example.org", "tok")
	require.Error(t, err)

	wm, err := store.GetWatermark(ctx, "x@example.org")
	require.NoError(t, err)
	assert.Equal(t, "m1", wm.MessageID)
}

func TestPoll_ReordersUnsortedList(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	mail := &fakeMail{list: []mailtm.MessageSummary{summary("m2", 2), summary("m4", 4), summary("m1", 1), summary("m3", 3)}}
	seedWatermark(t, store, "x@example.org", summary("m2", 2))

	msgs, err := NewDetector(mail, store, nil).Poll(ctx, "x@example.org", "tok")
	require.NoError(t, err)
	assert.Equal(t, []string{"m3", "m4"}, ids(msgs))
}

func TestPoll_WatermarkMessageDeleted(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	// m2 已被删除，只能依靠时间判断
	mail := &fakeMail{list: []mailtm.MessageSummary{summary("m3", 3), summary("m1", 1)}}
	seedWatermark(t, store, "x@example.org", summary("m2", 2))

	msgs, err := NewDetector(mail, store, nil).Poll(ctx, "x@example.org", "tok")
	require.NoError(t, err)
	assert.Equal(t, []string{"m3"}, ids(msgs))
}

func TestPoll_WatermarkNeverMovesBackwards(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	mail := &fakeMail{list: []mailtm.MessageSummary{summary("m1", 1)}}
	seedWatermark(t, store, "x@example.org", summary("m5", 5))
	d := NewDetector(mail, store, nil)

	msgs, err := d.Poll(ctx, "x@example.org", "tok")
	require.NoError(t, err)
	assert.Empty(t, msgs)

	wm, err := store.GetWatermark(ctx, "x@example.org")
	require.NoError(t, err)
	assert.Equal(t, "m5", wm.MessageID)
}

func TestPoll_NoMessageDeliveredTwice(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	mail := &fakeMail{}
	d := NewDetector(mail, store, nil)

	var delivered []string
	var marks []time.Time
	arrivals := []mailtm.MessageSummary{summary("m1", 1), summary("m2", 2), summary("m3", 3), summary("m4", 4)}
	for i := 0; i < len(arrivals); i++ {
		mail.list = append([]mailtm.MessageSummary{arrivals[i]}, mail.list...)
		for poll := 0; poll < 2; poll++ {
			msgs, err := d.Poll(ctx, "x@example.org", "tok")
			require.NoError(t, err)
			delivered = append(delivered, ids(msgs)...)

			wm, err := store.GetWatermark(ctx, "x@example.org")
			require.NoError(t, err)
			marks = append(marks, wm.MessageCreatedAt)
		}
	}

	assert.Equal(t, []string{"m2", "m3", "m4"}, delivered)
	for i := 1; i < len(marks); i++ {
		assert.False(t, marks[i].Before(marks[i-1]), "watermark moved backwards at poll %d", i)
	}
}
