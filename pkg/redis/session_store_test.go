package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionKey = "0000000000000000000000000000000000000000000000000000000000000000"

func TestNewSessionStoreValidation(t *testing.T) {
	_, err := NewSessionStore("zz")
	assert.Error(t, err)

	_, err = NewSessionStore("0011")
	assert.Error(t, err)

	store, err := NewSessionStore(testSessionKey)
	assert.NoError(t, err)
	assert.NotNil(t, store)
}

func TestSessionStoreEncryptDecrypt(t *testing.T) {
	store, err := NewSessionStore(testSessionKey)
	require.NoError(t, err)

	enc, err := store.encrypt([]byte(`{"x":1}`))
	require.NoError(t, err)
	assert.NotEmpty(t, enc)

	dec, err := store.decrypt(enc)
	require.NoError(t, err)
	assert.Equal(t, `{"x":1}`, string(dec))

	_, err = store.decrypt("00")
	assert.Error(t, err)

	_, err = store.decrypt("zz-not-hex")
	assert.Error(t, err)
}

func TestSessionStoreEncryptDecrypt_InvalidKeyMaterial(t *testing.T) {
	store := &SessionStore{encryptionKey: []byte("short-key")}
	_, err := store.encrypt([]byte("x"))
	assert.Error(t, err)

	_, err = store.decrypt("00")
	assert.Error(t, err)
}

func TestSessionStoreRoundTrip(t *testing.T) {
	srv := useMiniredis(t)
	store, err := NewSessionStore(testSessionKey)
	require.NoError(t, err)

	ctx := context.Background()
	in := &SessionData{UserID: "u-1", AccessToken: "a-ok", RefreshToken: "r-ok"}
	require.NoError(t, store.CreateSession(ctx, "sid-ok", in, time.Minute))

	// stored value is ciphertext, not the raw token
	stored, err := srv.Get("session:sid-ok")
	require.NoError(t, err)
	assert.NotContains(t, stored, "a-ok")

	data, err := store.GetSession(ctx, "sid-ok")
	require.NoError(t, err)
	assert.Equal(t, in, data)

	require.NoError(t, store.DeleteSession(ctx, "sid-ok"))
	_, err = store.GetSession(ctx, "sid-ok")
	assert.Error(t, err)
}

func TestSessionStore_GetSessionInvalidJSONPayload(t *testing.T) {
	useMiniredis(t)
	store, err := NewSessionStore(testSessionKey)
	require.NoError(t, err)

	enc, err := store.encrypt([]byte("plain-text"))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, Set(ctx, "session:sid-bad-json", enc, time.Minute))

	_, err = store.GetSession(ctx, "sid-bad-json")
	assert.Error(t, err)
}

func TestSessionStore_OperationHooks(t *testing.T) {
	store, err := NewSessionStore(testSessionKey)
	require.NoError(t, err)

	origSet, origGet, origDel := setSessionValue, getSessionValue, delSessionValue
	t.Cleanup(func() {
		setSessionValue = origSet
		getSessionValue = origGet
		delSessionValue = origDel
	})

	setSessionValue = func(context.Context, string, interface{}, time.Duration) error {
		return errors.New("set failed")
	}
	err = store.CreateSession(context.Background(), "sid", &SessionData{AccessToken: "a"}, time.Minute)
	assert.Error(t, err)

	getSessionValue = func(context.Context, string) (string, error) {
		return "", errors.New("not found")
	}
	_, err = store.GetSession(context.Background(), "sid")
	assert.Error(t, err)

	enc, err := store.encrypt([]byte(`{"userId":"u","accessToken":"ok","refreshToken":"ok2"}`))
	require.NoError(t, err)
	getSessionValue = func(context.Context, string) (string, error) { return enc, nil }
	data, err := store.GetSession(context.Background(), "sid")
	require.NoError(t, err)
	assert.Equal(t, "u", data.UserID)
	assert.Equal(t, "ok2", data.RefreshToken)

	delSessionValue = func(context.Context, string) error { return errors.New("delete failed") }
	assert.Error(t, store.DeleteSession(context.Background(), "sid"))
}

func TestSessionStore_CreateSession_MarshalError(t *testing.T) {
	store, err := NewSessionStore(testSessionKey)
	require.NoError(t, err)

	orig := marshalSessionJSON
	t.Cleanup(func() { marshalSessionJSON = orig })
	marshalSessionJSON = func(interface{}) ([]byte, error) { return nil, errors.New("marshal failed") }

	err = store.CreateSession(context.Background(), "sid", &SessionData{}, time.Minute)
	assert.EqualError(t, err, "marshal failed")
}
