package redisstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"mathcaptcha/captcha"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb, "captcha"), mr
}

func testChallenge() *captcha.Challenge {
	return &captcha.Challenge{
		ID:        captcha.NewID(),
		Operand1:  7,
		Operand2:  3,
		Text:      "7+3",
		Answer:    10,
		Image:     []byte("png bytes"),
		ExpiresAt: time.Now().Add(time.Minute),
	}
}

func TestStore_SetGet_Success(t *testing.T) {
	s, _ := newTestStore(t)
	ch := testChallenge()

	if err := s.Set(context.Background(), ch.ID, ch, time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(context.Background(), ch.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Answer != 10 || got.Text != "7+3" {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if string(got.Image) != "png bytes" {
		t.Errorf("image bytes lost in round-trip")
	}
}

func TestStore_Get_Missing(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Get(context.Background(), "nope")
	if !errors.Is(err, captcha.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Get_Expired(t *testing.T) {
	s, mr := newTestStore(t)
	ch := testChallenge()

	if err := s.Set(context.Background(), ch.ID, ch, time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	_, err := s.Get(context.Background(), ch.ID)
	if !errors.Is(err, captcha.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after TTL, got %v", err)
	}
}

func TestStore_Set_PastExpiration(t *testing.T) {
	s, _ := newTestStore(t)
	ch := testChallenge()
	if err := s.Set(context.Background(), ch.ID, ch, time.Now().Add(-time.Second)); err == nil {
		t.Fatal("expected error for expiration in the past")
	}
}

func TestStore_Delete(t *testing.T) {
	s, _ := newTestStore(t)
	ch := testChallenge()

	_ = s.Set(context.Background(), ch.ID, ch, time.Now().Add(time.Minute))
	if err := s.Delete(context.Background(), ch.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(context.Background(), ch.ID); !errors.Is(err, captcha.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStore_KeyPrefix(t *testing.T) {
	s, mr := newTestStore(t)
	ch := testChallenge()
	_ = s.Set(context.Background(), ch.ID, ch, time.Now().Add(time.Minute))
	if !mr.Exists("captcha:" + ch.ID) {
		t.Errorf("expected prefixed key captcha:%s", ch.ID)
	}
}
