package promo

import (
	"context"
	"strings"
	"time"
)

// Lookup resolves promo codes to flat discounts.
type Lookup interface {
	// Resolve returns the discount for a code, or ErrUnknownCode.
	Resolve(ctx context.Context, code string) (*Promo, error)
}

// Promo is a flat-amount discount code.
type Promo struct {
	Code     string
	Amount   int64
	ExpireAt *time.Time
}

// Expired reports whether the promo is past its expiry.
func (p *Promo) Expired(now time.Time) bool {
	return p.ExpireAt != nil && now.After(*p.ExpireAt)
}

// StaticLookup resolves codes from an in-memory table. Codes are matched
// case-insensitively and whitespace-trimmed, matching what customers
// actually type.
type StaticLookup struct {
	promos map[string]Promo
	now    func() time.Time
}

// NewStaticLookup creates a lookup over a fixed promo table.
func NewStaticLookup(promos []Promo) *StaticLookup {
	table := make(map[string]Promo, len(promos))
	for _, p := range promos {
		table[normalize(p.Code)] = p
	}
	return &StaticLookup{promos: table, now: time.Now}
}

// Resolve returns the discount for a code.
func (l *StaticLookup) Resolve(ctx context.Context, code string) (*Promo, error) {
	p, ok := l.promos[normalize(code)]
	if !ok {
		return nil, ErrUnknownCode
	}
	if p.Expired(l.now()) {
		return nil, ErrExpiredCode
	}
	return &p, nil
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

var _ Lookup = (*StaticLookup)(nil)
