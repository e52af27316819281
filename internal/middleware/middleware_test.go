package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BatmanBruc/bat-bot-tariffs/internal/contextkeys"
	"github.com/BatmanBruc/bat-bot-tariffs/types"
)

type fakeUserStore struct {
	users   map[int64]types.User
	upserts []types.User
}

func (s *fakeUserStore) UpsertUser(u types.User) error {
	s.upserts = append(s.upserts, u)
	return nil
}

func (s *fakeUserStore) GetUser(userID int64) (*types.User, error) {
	u, ok := s.users[userID]
	if !ok {
		return nil, errors.New("user not found")
	}
	return &u, nil
}

func capture(got *context.Context) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		*got = ctx
	}
}

func TestPreCheckoutUsesStoredChatID(t *testing.T) {
	users := &fakeUserStore{users: map[int64]types.User{
		42: {UserID: 42, ChatID: 777},
	}}
	m := New(users, nil)

	var got context.Context
	m.IdentifyUserMiddleware(capture(&got))(context.Background(), nil, &models.Update{
		PreCheckoutQuery: &models.PreCheckoutQuery{
			ID:   "pcq-1",
			From: &models.User{ID: 42},
		},
	})

	require.NotNil(t, got)
	userID, ok := contextkeys.GetUserID(got)
	require.True(t, ok)
	assert.Equal(t, int64(42), userID)

	chatID, ok := contextkeys.GetChatID(got)
	require.True(t, ok)
	assert.Equal(t, int64(777), chatID)

	require.Len(t, users.upserts, 1)
	assert.Equal(t, int64(777), users.upserts[0].ChatID)
}

func TestPreCheckoutFallsBackToUserID(t *testing.T) {
	users := &fakeUserStore{users: map[int64]types.User{}}
	m := New(users, nil)

	var got context.Context
	m.IdentifyUserMiddleware(capture(&got))(context.Background(), nil, &models.Update{
		PreCheckoutQuery: &models.PreCheckoutQuery{
			ID:   "pcq-2",
			From: &models.User{ID: 42},
		},
	})

	require.NotNil(t, got)
	chatID, ok := contextkeys.GetChatID(got)
	require.True(t, ok)
	assert.Equal(t, int64(42), chatID)
}

func TestMessageUpdateEnrichesContext(t *testing.T) {
	users := &fakeUserStore{users: map[int64]types.User{}}
	m := New(users, nil)

	var got context.Context
	m.IdentifyUserMiddleware(capture(&got))(context.Background(), nil, &models.Update{
		Message: &models.Message{
			Text: "/start",
			Chat: models.Chat{ID: 500},
			From: &models.User{ID: 42, LanguageCode: "ru"},
		},
	})

	require.NotNil(t, got)
	chatID, ok := contextkeys.GetChatID(got)
	require.True(t, ok)
	assert.Equal(t, int64(500), chatID)

	lang, ok := contextkeys.GetLang(got)
	require.True(t, ok)
	assert.Equal(t, "ru", lang)
}

func TestSenderlessUpdateDropped(t *testing.T) {
	m := New(&fakeUserStore{}, nil)

	var got context.Context
	m.IdentifyUserMiddleware(capture(&got))(context.Background(), nil, &models.Update{})

	assert.Nil(t, got)
}
