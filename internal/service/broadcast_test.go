package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"tempmail/bot/internal/config"
)

type recordingSender struct {
	fail map[int64]bool
	sent []int64
}

func (s *recordingSender) SendPlain(_ context.Context, chatID int64, _ string) error {
	if s.fail[chatID] {
		return errors.New("bot was blocked by the user")
	}
	s.sent = append(s.sent, chatID)
	return nil
}

type staticUsers []int64

func (u staticUsers) ListUserIDs(context.Context) ([]int64, error) { return u, nil }

type broadcastCounter struct{ ok, failed int }

func (c *broadcastCounter) RecordBroadcast(sent bool) {
	if sent {
		c.ok++
	} else {
		c.failed++
	}
}

func TestBroadcaster_CountsFailuresAndContinues(t *testing.T) {
	sender := &recordingSender{fail: map[int64]bool{2: true}}
	counter := &broadcastCounter{}
	b := NewBroadcaster(config.BroadcastConfig{RatePerSecond: 1000, Burst: 10}, staticUsers{1, 2, 3}, sender, counter, nil)

	ids, err := b.Recipients(context.Background())
	assert.NoError(t, err)

	res := b.Send(context.Background(), ids, "hello")
	assert.Equal(t, BroadcastResult{Total: 3, Sent: 2, Failed: 1}, res)
	assert.Equal(t, []int64{1, 3}, sender.sent)
	assert.Equal(t, 2, counter.ok)
	assert.Equal(t, 1, counter.failed)
	assert.False(t, b.Running())
}

func TestBroadcaster_StopsOnCancel(t *testing.T) {
	sender := &recordingSender{}
	b := NewBroadcaster(config.BroadcastConfig{RatePerSecond: 1000, Burst: 1}, nil, sender, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := b.Send(ctx, []int64{1, 2, 3}, "hello")
	assert.Equal(t, 3, res.Total)
	assert.Zero(t, res.Sent)
	assert.Equal(t, 3, res.Failed)
}

type blockingSender struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *blockingSender) SendPlain(context.Context, int64, string) error {
	s.once.Do(func() { close(s.started) })
	<-s.release
	return nil
}

func TestBroadcaster_RejectsOverlappingSend(t *testing.T) {
	sender := &blockingSender{started: make(chan struct{}), release: make(chan struct{})}
	b := NewBroadcaster(config.BroadcastConfig{RatePerSecond: 1000, Burst: 10}, nil, sender, nil, nil)

	done := make(chan BroadcastResult, 1)
	go func() { done <- b.Send(context.Background(), []int64{1}, "first") }()
	<-sender.started
	assert.True(t, b.Running())

	res := b.Send(context.Background(), []int64{2, 3}, "second")
	assert.Equal(t, BroadcastResult{Total: 2, Failed: 2}, res)

	close(sender.release)
	assert.Equal(t, BroadcastResult{Total: 1, Sent: 1}, <-done)
	assert.False(t, b.Running())
}
