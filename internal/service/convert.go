package service

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lenshaus/atelier/internal/domain"
	"github.com/lenshaus/atelier/internal/repository"
)

// GenerateSessionToken generates a cryptographically secure cart session token
// Uses 32 bytes of random data encoded as base64 URL-safe string
func GenerateSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return base64.URLEncoding.EncodeToString(b), nil
}

// GenerateOrderCode produces a numeric order code unique enough for the
// gateway: second-resolution timestamp with three random digits appended.
// Codes stay well below the gateway's 2^53-1 limit until year 285420.
func GenerateOrderCode() (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		return 0, fmt.Errorf("failed to generate random digits: %w", err)
	}
	return time.Now().Unix()*1000 + n.Int64(), nil
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func fromPgUUID(id pgtype.UUID) uuid.UUID {
	return uuid.UUID(id.Bytes)
}

func pgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func toDomainCartItem(row repository.CartItem) (domain.CartItem, error) {
	item := domain.CartItem{
		ID:            fromPgUUID(row.ID),
		ProductID:     row.ProductID,
		ProductName:   row.ProductName,
		Quantity:      row.Quantity,
		FramePrice:    row.FramePrice,
		FrameDiscount: row.FrameDiscount,
	}
	if len(row.LensDetail) > 0 {
		var lens domain.LensSelection
		if err := json.Unmarshal(row.LensDetail, &lens); err != nil {
			return domain.CartItem{}, fmt.Errorf("failed to decode lens detail: %w", err)
		}
		item.LensDetail = &lens
	}
	return item, nil
}

func marshalLensDetail(lens *domain.LensSelection) ([]byte, error) {
	if lens == nil {
		return nil, nil
	}
	buf, err := json.Marshal(lens)
	if err != nil {
		return nil, fmt.Errorf("failed to encode lens detail: %w", err)
	}
	return buf, nil
}
