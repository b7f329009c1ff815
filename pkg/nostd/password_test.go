package nostd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordMatchPlaintext(t *testing.T) {
	assert.True(t, PasswordMatch("secret", "secret"))
	assert.False(t, PasswordMatch("secret", "wrong"))
	assert.False(t, PasswordMatch("secret", ""))
}

func TestPasswordMatchBcrypt(t *testing.T) {
	hashed, err := BcryptEncode([]byte("secret"))
	require.NoError(t, err)

	assert.True(t, PasswordMatch(string(hashed), "secret"))
	assert.False(t, PasswordMatch(string(hashed), "wrong"))
}
