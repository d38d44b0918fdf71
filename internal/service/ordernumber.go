package service

import "crypto/rand"

// OrderNumberGenerator produces the short human-facing token printed on the
// confirmation. It is injectable so tests can pin the value.
type OrderNumberGenerator interface {
	OrderNumber() string
}

const (
	orderNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	orderNumberLength   = 9
)

type randomOrderNumber struct{}

// NewOrderNumberGenerator returns the production generator: a 9-character
// upper-case alphanumeric token from crypto/rand. Collisions are practically
// unlikely but not prevented.
func NewOrderNumberGenerator() OrderNumberGenerator {
	return randomOrderNumber{}
}

func (randomOrderNumber) OrderNumber() string {
	buf := make([]byte, orderNumberLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	for i, b := range buf {
		buf[i] = orderNumberAlphabet[int(b)%len(orderNumberAlphabet)]
	}
	return string(buf)
}
