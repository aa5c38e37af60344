package exchange

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// Sign вычисляет HMAC-SHA256 подпись запроса.
//
// Префикс-строка: timestamp + METHOD + path + body (без разделителей),
// path включает query string. Секрет декодируется из base64 и используется
// как ключ HMAC, результат кодируется в base64.
//
// Детерминирована: одинаковые аргументы всегда дают одинаковую подпись.
func Sign(secret, timestamp, method, path, body string) (string, error) {
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return "", fmt.Errorf("decode api secret: %w", err)
	}

	prehash := timestamp + method + path + body
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(prehash))

	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}
