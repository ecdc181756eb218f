package accounts

import (
	"crypto/rand"
	"crypto/subtle"
	"math/big"

	goerrors "github.com/goliatone/go-errors"
)

// numericOTPGenerator mints codes from crypto/rand one digit at a time so
// leading zeros are preserved.
type numericOTPGenerator struct{}

// NewOTPGenerator returns the default numeric OTP generator.
func NewOTPGenerator() OTPGenerator {
	return numericOTPGenerator{}
}

func (numericOTPGenerator) Generate(length int) (string, error) {
	if length <= 0 {
		return "", goerrors.New("otp length must be positive", goerrors.CategoryBadInput)
	}

	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate otp")
		}
		digits[i] = byte('0' + n.Int64())
	}

	return string(digits), nil
}

// otpEqual is an exact, case-sensitive string match hardened against
// timing probes.
func otpEqual(stored, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}
