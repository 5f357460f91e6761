package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fakeCounterStore struct {
	counts map[string]int64
}

func (f *fakeCounterStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if f.counts == nil {
		f.counts = make(map[string]int64)
	}
	f.counts[key]++
	return f.counts[key], nil
}

func loginRequest(username string) *http.Request {
	body := strings.NewReader(`{"username":"` + username + `","password":"x"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
	req.RemoteAddr = "203.0.113.9:4521"
	return req
}

func TestAuthRateLimitBlocksAfterIPLimit(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 0)
	handler := AuthRateLimit(policy, &fakeCounterStore{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest("maria"))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("attempt %d blocked early: %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("maria"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
}

func TestAuthRateLimitCountsPerUsername(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 1)
	handler := AuthRateLimit(policy, &fakeCounterStore{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("maria"))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("first attempt blocked: %d", rec.Code)
	}

	// same username again, over the limit
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("MARIA "))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429 (normalized username shares the counter)", rec.Code)
	}

	// a different username still passes
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("luis"))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("other username blocked: %d", rec.Code)
	}
}

func TestAuthRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", 0, 0, 0)
	handler := AuthRateLimit(policy, &fakeCounterStore{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest("maria"))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("disabled policy blocked request: %d", rec.Code)
		}
	}
}
