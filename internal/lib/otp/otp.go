// Package otp генерирует одноразовые числовые коды для восстановления пароля.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// codeRange количество возможных шестизначных кодов: [100000, 999999].
const codeRange = 900000

// NewCode возвращает шестизначный код, равномерно выбранный из диапазона [100000, 999999].
// Используется crypto/rand, чтобы код нельзя было предсказать.
func NewCode() (string, error) {
	const op = "otp.NewCode"
	n, err := rand.Int(rand.Reader, big.NewInt(codeRange))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
