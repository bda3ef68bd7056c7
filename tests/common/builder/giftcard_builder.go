//go:build unit || e2e

package builder

import (
	"time"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/giftcard"
)

type GiftcardBuilder struct {
	Code        string
	IssuedCents int64
	Now         time.Time
}

func NewGiftcardBuilder() *GiftcardBuilder {
	return &GiftcardBuilder{
		Code:        "GIFT-2025-0001",
		IssuedCents: 10000,
		Now:         time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC),
	}
}

func (g *GiftcardBuilder) With(mutate func(*GiftcardBuilder)) *GiftcardBuilder {
	mutate(g)
	return g
}

func (g *GiftcardBuilder) BuildDomain() (*giftcard.Giftcard, error) {
	return giftcard.NewGiftcard(g.Code, g.IssuedCents, g.Now)
}

// Fluent builder methods
func (g *GiftcardBuilder) WithCode(code string) *GiftcardBuilder {
	g.Code = code
	return g
}

func (g *GiftcardBuilder) WithIssued(cents int64) *GiftcardBuilder {
	g.IssuedCents = cents
	return g
}

func (g *GiftcardBuilder) WithNow(now time.Time) *GiftcardBuilder {
	g.Now = now
	return g
}
