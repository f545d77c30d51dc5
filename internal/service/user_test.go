package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempmail/bot/internal/domain"
	"tempmail/bot/internal/storage/memory"
)

func TestUserService_GetOrCreateRefreshesProfile(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewUserService(store, nil)

	u, err := svc.GetOrCreate(ctx, 5, domain.Profile{FirstName: "Ada", Username: "ada"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), u.TelegramID)
	assert.Equal(t, domain.LangUnset, u.Language)

	_, err = svc.GetOrCreate(ctx, 5, domain.Profile{FirstName: "Ada", Username: "ada_l"})
	require.NoError(t, err)

	found, err := svc.Find(ctx, "@ada_l")
	require.NoError(t, err)
	assert.Equal(t, int64(5), found.TelegramID)

	_, err = svc.Find(ctx, "@ada")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_SetLanguage(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(memory.NewStore(), nil)

	u, err := svc.SetLanguage(ctx, 9, domain.LangEnglish)
	require.NoError(t, err)
	assert.Equal(t, domain.LangEnglish, u.Language)

	u, err = svc.SetLanguage(ctx, 9, domain.Language("fr"))
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultLanguage, u.Language)
}

func TestUserService_FindByID(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(memory.NewStore(), nil)
	_, err := svc.GetOrCreate(ctx, 77, domain.Profile{})
	require.NoError(t, err)

	u, err := svc.Find(ctx, " 77 ")
	require.NoError(t, err)
	assert.Equal(t, int64(77), u.TelegramID)

	_, err = svc.Find(ctx, "78")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = svc.Find(ctx, "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestResolveLanguage(t *testing.T) {
	assert.Equal(t, domain.LangEnglish, ResolveLanguage(&domain.User{Language: domain.LangEnglish}, "ar"))
	assert.Equal(t, domain.LangEnglish, ResolveLanguage(&domain.User{}, "en-US"))
	assert.Equal(t, domain.LangArabic, ResolveLanguage(nil, "de"))
}
