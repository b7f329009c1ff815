package nostd

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
)

// RandomHex 生成 n 字节的十六进制随机串
func RandomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// RandomBase64 生成 n 字节的 base64 随机串
func RandomBase64(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(buf)
}
