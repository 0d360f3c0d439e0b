package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patomdq/wallest-operating-system-sub000/internal/gcal"
)

type fakeGoogleAPI struct {
	gcal.API
	gotState string
}

func (f *fakeGoogleAPI) AuthCodeURL(state string) string {
	f.gotState = state
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func TestSyncServiceOAuthState(t *testing.T) {
	key := []byte("test-signing-key")
	api := &fakeGoogleAPI{}
	service := &syncServiceImpl{
		logger:          zerolog.Nop(),
		api:             api,
		stateSigningKey: key,
	}

	t.Run("state round trip", func(t *testing.T) {
		authURL, err := service.AuthURL("user-1")
		require.NoError(t, err)
		assert.Contains(t, authURL, "state=")
		require.NotEmpty(t, api.gotState)

		userID, err := service.parseState(api.gotState)
		require.NoError(t, err)
		assert.Equal(t, "user-1", userID)
	})

	t.Run("rejects foreign signature", func(t *testing.T) {
		foreign := &syncServiceImpl{
			logger:          zerolog.Nop(),
			api:             &fakeGoogleAPI{},
			stateSigningKey: []byte("another-key"),
		}
		authURL, err := foreign.AuthURL("user-1")
		require.NoError(t, err)
		_ = authURL

		_, err = service.parseState(foreign.api.(*fakeGoogleAPI).gotState)
		assert.Error(t, err)
	})

	t.Run("rejects expired state", func(t *testing.T) {
		past := time.Now().Add(-stateTTL - time.Minute)
		expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(stateTTL)),
		})
		signed, err := expired.SignedString(key)
		require.NoError(t, err)

		_, err = service.parseState(signed)
		assert.Error(t, err)
	})

	t.Run("rejects state without subject", func(t *testing.T) {
		anonymous := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(stateTTL)),
		})
		signed, err := anonymous.SignedString(key)
		require.NoError(t, err)

		_, err = service.parseState(signed)
		assert.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := service.parseState("not-a-jwt")
		assert.Error(t, err)
	})
}
