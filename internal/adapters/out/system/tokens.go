package system

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"tpts/internal/core/domain/model/parcel"
)

// codeAlphabet leaves out 0/O and 1/I so codes survive being read over the phone.
const codeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// Tokens issues OTPs, tracking numbers and group codes from crypto/rand.
type Tokens struct{}

func (Tokens) GenerateOtp() (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(parcel.OtpLength), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", parcel.OtpLength, n), nil
}

func (Tokens) GenerateTrackingNumber() (string, error) {
	return randomCode("TPTS", 10)
}

func (Tokens) GenerateGroupCode() (string, error) {
	return randomCode("GRP-", 8)
}

func randomCode(prefix string, length int) (string, error) {
	var b strings.Builder
	b.Grow(len(prefix) + length)
	b.WriteString(prefix)

	alphabet := big.NewInt(int64(len(codeAlphabet)))
	for range length {
		n, err := rand.Int(rand.Reader, alphabet)
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String(), nil
}
