package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tempmail/bot/internal/mailtm"
	"tempmail/bot/internal/secret"
	"tempmail/bot/internal/storage/memory"
)

// MockProvider 模拟 mail.tm
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Domains(ctx context.Context) ([]mailtm.Domain, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]mailtm.Domain), args.Error(1)
}

func (m *MockProvider) CreateAccount(ctx context.Context, address, password string) (*mailtm.Account, error) {
	args := m.Called(ctx, address, password)
	if fn, ok := args.Get(0).(func(context.Context, string, string) *mailtm.Account); ok {
		return fn(ctx, address, password), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mailtm.Account), args.Error(1)
}

func (m *MockProvider) Token(ctx context.Context, address, password string) (string, error) {
	args := m.Called(ctx, address, password)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) Messages(ctx context.Context, token string) ([]mailtm.MessageSummary, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]mailtm.MessageSummary), args.Error(1)
}

func (m *MockProvider) Message(ctx context.Context, token, id string) (*mailtm.Message, error) {
	args := m.Called(ctx, token, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mailtm.Message), args.Error(1)
}

func (m *MockProvider) DeleteAccount(ctx context.Context, token, accountID string) error {
	args := m.Called(ctx, token, accountID)
	return args.Error(0)
}

type countingRecorder struct {
	created, deleted int
}

func (r *countingRecorder) RecordMailboxCreated()      { r.created++ }
func (r *countingRecorder) RecordMailboxDeleted(n int) { r.deleted += n }

func expectCreate(p *MockProvider, token string) {
	p.On("Domains", mock.Anything).Return([]mailtm.Domain{{Domain: "mail.test", IsActive: true}}, nil).Once()
	p.On("CreateAccount", mock.Anything, mock.MatchedBy(func(a string) bool {
		return strings.HasSuffix(a, "@mail.test")
	}), mock.Anything).Return(func(_ context.Context, address, _ string) *mailtm.Account {
		return &mailtm.Account{ID: "acc-" + address, Address: address}
	}, nil).Once()
	p.On("Token", mock.Anything, mock.Anything, mock.Anything).Return(token, nil).Once()
}

func TestMailboxService_CreateEncryptsCredentials(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	provider := &MockProvider{}
	expectCreate(provider, "jwt-token")
	rec := &countingRecorder{}
	svc := NewMailboxService(store, provider, secret.New("passphrase"), rec, 0, nil)

	mb, err := svc.Create(ctx, 42)
	require.NoError(t, err)
	provider.AssertExpectations(t)

	assert.Len(t, mb.ID, 32)
	assert.NotContains(t, mb.ID, "-")
	assert.Equal(t, "jwt-token", mb.Token)
	assert.NotEmpty(t, mb.Password)
	local := strings.SplitN(mb.Address, "@", 2)[0]
	assert.Len(t, local, 10)
	assert.Equal(t, 1, rec.created)

	stored, err := store.GetMailbox(ctx, mb.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.Token, "sb1:"))
	assert.NotEqual(t, mb.Password, stored.Password)

	got, err := svc.Get(ctx, 42, mb.ID)
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", got.Token)
	assert.Equal(t, mb.Password, got.Password)

	wm, err := store.GetWatermark(ctx, mb.Address)
	require.NoError(t, err)
	assert.Empty(t, wm.MessageID)
}

func TestMailboxService_CreateWithoutDomains(t *testing.T) {
	provider := &MockProvider{}
	provider.On("Domains", mock.Anything).Return([]mailtm.Domain{}, nil)
	svc := NewMailboxService(memory.NewStore(), provider, secret.New(""), nil, 0, nil)

	_, err := svc.Create(context.Background(), 1)
	assert.ErrorIs(t, err, mailtm.ErrNoDomains)
}

func TestMailboxService_CreateRespectsLimit(t *testing.T) {
	ctx := context.Background()
	provider := &MockProvider{}
	expectCreate(provider, "t1")
	svc := NewMailboxService(memory.NewStore(), provider, secret.New(""), nil, 1, nil)

	_, err := svc.Create(ctx, 1)
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1)
	assert.ErrorIs(t, err, ErrMailboxLimit)
	provider.AssertNumberOfCalls(t, "Domains", 1)
}

func TestMailboxService_GetChecksOwner(t *testing.T) {
	ctx := context.Background()
	provider := &MockProvider{}
	expectCreate(provider, "t1")
	svc := NewMailboxService(memory.NewStore(), provider, secret.New(""), nil, 0, nil)

	mb, err := svc.Create(ctx, 1)
	require.NoError(t, err)

	_, err = svc.Get(ctx, 2, mb.ID)
	assert.ErrorIs(t, err, ErrMailboxNotFound)
	_, err = svc.Get(ctx, 1, "missing")
	assert.ErrorIs(t, err, ErrMailboxNotFound)
}

func TestMailboxService_DeleteIsBestEffortRemotely(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	provider := &MockProvider{}
	expectCreate(provider, "t1")
	rec := &countingRecorder{}
	svc := NewMailboxService(store, provider, secret.New(""), rec, 0, nil)

	mb, err := svc.Create(ctx, 1)
	require.NoError(t, err)
	provider.On("DeleteAccount", mock.Anything, "t1", mb.AccountID).Return(errors.New("gone")).Once()

	deleted, err := svc.Delete(ctx, 1, mb.ID)
	require.NoError(t, err)
	assert.Equal(t, mb.Address, deleted.Address)
	assert.Equal(t, 1, rec.deleted)

	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, list)
	provider.AssertExpectations(t)
}

func TestMailboxService_DeleteAll(t *testing.T) {
	ctx := context.Background()
	provider := &MockProvider{}
	expectCreate(provider, "t1")
	expectCreate(provider, "t2")
	provider.On("DeleteAccount", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	svc := NewMailboxService(memory.NewStore(), provider, secret.New("k"), nil, 0, nil)

	_, err := svc.Create(ctx, 1)
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1)
	require.NoError(t, err)

	n, err := svc.DeleteAll(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	provider.AssertCalled(t, "DeleteAccount", mock.Anything, "t1", mock.Anything)
	provider.AssertCalled(t, "DeleteAccount", mock.Anything, "t2", mock.Anything)
}

func TestMailboxService_InboxDistinguishesEmptyFromFailure(t *testing.T) {
	ctx := context.Background()
	provider := &MockProvider{}
	expectCreate(provider, "t1")
	svc := NewMailboxService(memory.NewStore(), provider, secret.New(""), nil, 0, nil)
	mb, err := svc.Create(ctx, 1)
	require.NoError(t, err)

	provider.On("Messages", mock.Anything, "t1").Return([]mailtm.MessageSummary{}, nil).Once()
	_, list, err := svc.Inbox(ctx, 1, mb.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	provider.On("Messages", mock.Anything, "t1").Return(nil, mailtm.ErrMalformed).Once()
	got, _, err := svc.Inbox(ctx, 1, mb.ID)
	assert.ErrorIs(t, err, mailtm.ErrMalformed)
	require.NotNil(t, got)
	assert.Equal(t, mb.Address, got.Address)
}

func TestMailboxService_MessageExtractsOTP(t *testing.T) {
	ctx := context.Background()
	provider := &MockProvider{}
	expectCreate(provider, "t1")
	svc := NewMailboxService(memory.NewStore(), provider, secret.New(""), nil, 0, nil)
	mb, err := svc.Create(ctx, 1)
	require.NoError(t, err)

	provider.On("Message", mock.Anything, "t1", "m1").Return(&mailtm.Message{Text: "code 774411"}, nil)
	opened, err := svc.Message(ctx, 1, mb.ID, "m1")
	require.NoError(t, err)
	assert.Equal(t, "774411", opened.OTP)
}

func TestMailboxService_GetNeverRenewsToken(t *testing.T) {
	ctx := context.Background()
	provider := &MockProvider{}
	expectCreate(provider, "stale-token")
	svc := NewMailboxService(memory.NewStore(), provider, secret.New(""), nil, 0, nil)

	mb, err := svc.Create(ctx, 3)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		got, err := svc.Get(ctx, 3, mb.ID)
		require.NoError(t, err)
		assert.Equal(t, "stale-token", got.Token)
	}
	provider.AssertNumberOfCalls(t, "Token", 1)
}
