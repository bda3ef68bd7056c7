package bookingcode

import (
	"crypto/rand"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/pkg/errs"
)

// Alphabet excludes 0/O and 1/I so codes survive being read over the phone.
const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 8

// Generate returns a short human-readable booking code, e.g. "K7PMQ2RD".
func Generate() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", errs.Wrap(err, "failed to generate booking code")
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf), nil
}
