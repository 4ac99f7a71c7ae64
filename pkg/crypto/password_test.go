package crypto

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)

	assert.True(t, CheckPassword("secret1", hash))
	assert.False(t, CheckPassword("secret2", hash))
}

func TestGenerateRandomToken(t *testing.T) {
	token, err := GenerateRandomToken(16)
	assert.NoError(t, err)
	assert.Len(t, token, 32)
}

func TestGenerateInviteCode_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^SPRT-[A-Z0-9]{5}$`)
	seen := map[string]struct{}{}
	for i := 0; i < 200; i++ {
		code, err := GenerateInviteCode("SPRT-")
		assert.NoError(t, err)
		assert.Regexp(t, pattern, code)
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 190)
}

func TestGenerateInviteCode_SkipsBiasedBytes(t *testing.T) {
	origRandRead := randomRead
	t.Cleanup(func() { randomRead = origRandRead })

	calls := 0
	randomRead = func(b []byte) (int, error) {
		calls++
		for i := range b {
			if calls == 1 {
				b[i] = 255
			} else {
				b[i] = byte(i)
			}
		}
		return len(b), nil
	}

	code, err := GenerateInviteCode("SPRT-")
	assert.NoError(t, err)
	assert.Equal(t, "SPRT-ABCDE", code)
	assert.Equal(t, 2, calls)
}

func TestCrypto_ErrorBranches(t *testing.T) {
	origBcrypt := bcryptGenerateFromPassword
	origRandRead := randomRead
	t.Cleanup(func() {
		bcryptGenerateFromPassword = origBcrypt
		randomRead = origRandRead
	})

	bcryptGenerateFromPassword = func([]byte, int) ([]byte, error) {
		return nil, errors.New("bcrypt failed")
	}
	_, err := HashPassword("secret1")
	assert.Error(t, err)

	randomRead = func([]byte) (int, error) {
		return 0, errors.New("rand failed")
	}
	_, err = GenerateRandomToken(16)
	assert.Error(t, err)
	_, err = GenerateInviteCode("SPRT-")
	assert.Error(t, err)
}
