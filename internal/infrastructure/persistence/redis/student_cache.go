package redis

import (
	"context"
	"errors"
	"time"

	"github.com/enlystreetwear-png/AR-karate/internal/domain/shared"
	"github.com/enlystreetwear-png/AR-karate/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT CACHE IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// cachedStudent is the JSON shape stored in Redis. Kept separate from the
// domain entity so the cache format can evolve independently.
type cachedStudent struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Belt         string    `json:"belt"`
	DateOfBirth  string    `json:"dob,omitempty"`
	Age          int       `json:"age,omitempty"`
	WeightKG     float64   `json:"weight_kg,omitempty"`
	GovernmentID string    `json:"government_id,omitempty"`
	GuardianName string    `json:"guardian_name,omitempty"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StudentCache implements student.Cache backed by Redis.
type StudentCache struct {
	cache *Cache
}

// NewStudentCache creates a new StudentCache.
func NewStudentCache(cache *Cache) *StudentCache {
	return &StudentCache{cache: cache}
}

// Get fetches a student from cache. A miss maps to shared.ErrNotFound so
// callers can use the usual not-found check.
func (c *StudentCache) Get(ctx context.Context, studentID string) (*student.Student, error) {
	var cached cachedStudent
	err := c.cache.Get(ctx, StudentKey(studentID), &cached)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	return &student.Student{
		ID:           cached.ID,
		Name:         cached.Name,
		Belt:         student.Belt(cached.Belt),
		DateOfBirth:  cached.DateOfBirth,
		Age:          cached.Age,
		WeightKG:     cached.WeightKG,
		GovernmentID: cached.GovernmentID,
		GuardianName: cached.GuardianName,
		ContactPhone: cached.ContactPhone,
		PhotoURL:     cached.PhotoURL,
		CreatedAt:    cached.CreatedAt,
		UpdatedAt:    cached.UpdatedAt,
	}, nil
}

// Set stores a student in cache.
func (c *StudentCache) Set(ctx context.Context, s *student.Student, ttl time.Duration) error {
	cached := cachedStudent{
		ID:           s.ID,
		Name:         s.Name,
		Belt:         string(s.Belt),
		DateOfBirth:  s.DateOfBirth,
		Age:          s.Age,
		WeightKG:     s.WeightKG,
		GovernmentID: s.GovernmentID,
		GuardianName: s.GuardianName,
		ContactPhone: s.ContactPhone,
		PhotoURL:     s.PhotoURL,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}

	return c.cache.Set(ctx, StudentKey(s.ID), cached, ttl)
}

// Invalidate removes a student's cache entry.
func (c *StudentCache) Invalidate(ctx context.Context, studentID string) error {
	return c.cache.Delete(ctx, StudentKey(studentID))
}

// InvalidateAll drops every cached student profile.
func (c *StudentCache) InvalidateAll(ctx context.Context) error {
	return c.cache.DeleteByPattern(ctx, PrefixStudent+"*")
}
