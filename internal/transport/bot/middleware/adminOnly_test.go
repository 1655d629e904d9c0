package middleware_test

import (
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/require"

	"smartdeals/internal/transport/bot/middleware"
)

func TestIsAdmin(t *testing.T) {
	rq := require.New(t)

	admins := []int64{100, 200}

	testCases := []struct {
		name   string
		update telego.Update
		admins []int64
		want   bool
	}{
		{
			name:   "Admin message",
			update: telego.Update{Message: &telego.Message{From: &telego.User{ID: 200}}},
			admins: admins,
			want:   true,
		},
		{
			name:   "Stranger message",
			update: telego.Update{Message: &telego.Message{From: &telego.User{ID: 300}}},
			admins: admins,
			want:   false,
		},
		{
			name:   "Channel post without sender",
			update: telego.Update{Message: &telego.Message{}},
			admins: admins,
			want:   false,
		},
		{
			name:   "Admin callback",
			update: telego.Update{CallbackQuery: &telego.CallbackQuery{From: telego.User{ID: 100}}},
			admins: admins,
			want:   true,
		},
		{
			name:   "No admins configured",
			update: telego.Update{Message: &telego.Message{From: &telego.User{ID: 100}}},
			admins: nil,
			want:   false,
		},
		{
			name:   "Other update kinds",
			update: telego.Update{EditedMessage: &telego.Message{From: &telego.User{ID: 100}}},
			admins: admins,
			want:   false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			rq.Equal(tc.want, middleware.IsAdmin(tc.update, tc.admins))
		})
	}
}
