package nostd

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

func BcryptEncode(password []byte) ([]byte, error) {
	return bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
}

func BcryptMatch(hashedPassword, password []byte) error {
	return bcrypt.CompareHashAndPassword(hashedPassword, password)
}

// PasswordMatch 校验口令，配置值以 $2a$/$2b$ 开头时按 bcrypt 哈希处理，否则恒定时间明文比较
func PasswordMatch(expected, given string) bool {
	if strings.HasPrefix(expected, "$2a$") || strings.HasPrefix(expected, "$2b$") {
		return BcryptMatch([]byte(expected), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(given)) == 1
}
