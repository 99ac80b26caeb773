package captcha

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Challenge is one generated arithmetic problem instance. It is created
// once, written once into the store, and never mutated afterwards.
//
// Answer and Image must never reach the client; callers return only ID
// and the image bytes they choose to display.
type Challenge struct {
	ID        string    `json:"id"`
	Operand1  int       `json:"operand1"`
	Operand2  int       `json:"operand2"`
	Text      string    `json:"text"`
	Answer    int       `json:"answer"`
	Image     []byte    `json:"image"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewID mints a fresh challenge identifier: the raw bytes of a random
// UUID rendered as 32 lowercase hex characters with no separators.
func NewID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}
