package services

import (
	"testing"

	"github.com/shashiranjanraj/inbox/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)

	user, err := f.auth.Register("carol", "carol@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "s3cret-pass", user.Password)
	assert.True(t, auth.CheckPassword(user.Password, "s3cret-pass"))

	_, err = f.auth.Register("other", "carol@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	// Names are login credentials too, so they must be unique as well.
	_, err = f.auth.Register("carol", "carol2@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = f.auth.Register("carol2", "carol2@example.com", "s3cret-pass")
	assert.NoError(t, err)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.Register("carol", "carol@example.com", "s3cret-pass")
	require.NoError(t, err)

	// By email.
	user, tokens, err := f.auth.Login("carol@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "carol", user.Name)
	assert.NotEmpty(t, tokens.Token)
	assert.NotEmpty(t, tokens.RefreshToken)

	// By name.
	_, _, err = f.auth.Login("carol", "s3cret-pass")
	require.NoError(t, err)

	// Wrong password and unknown login are indistinguishable.
	_, _, err = f.auth.Login("carol", "wrong-pass")
	assert.ErrorIs(t, err, ErrForbidden)
	_, _, err = f.auth.Login("nobody", "s3cret-pass")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCompleteProfile(t *testing.T) {
	f := newFixture(t)
	user, err := f.auth.Register("carol", "carol@example.com", "s3cret-pass")
	require.NoError(t, err)

	updated, err := f.auth.CompleteProfile(user.ID, "cc", "+49 151 0000", "")
	require.NoError(t, err)
	assert.Equal(t, "cc", updated.Nickname)
	assert.Equal(t, "+49 151 0000", updated.Phone)

	// Empty arguments keep the stored values.
	updated, err = f.auth.CompleteProfile(user.ID, "", "", "http://localhost/storage/profiles/1.png")
	require.NoError(t, err)
	assert.Equal(t, "cc", updated.Nickname)
	assert.NotEmpty(t, updated.PhotoURL)

	_, err = f.auth.CompleteProfile(9999, "x", "", "")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := f.auth.Profile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "cc", got.Nickname)
}
