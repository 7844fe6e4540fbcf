// Package cache provides an in-memory LRU cache with TTL used to keep
// account and card views warm between API calls. Keys are namespaced
// by owner so a movement event can drop every entry for one owner.
package cache

import (
	"strings"
	"time"
)

// Cache is the read/write surface the view services depend on.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
	Size() int
}

// Invalidator is the surface the movement-event worker depends on.
type Invalidator interface {
	InvalidateOwner(ownerID string) int
}

// Key builds a namespaced cache key: "<ownerID>/<parts...>". The owner
// prefix is what InvalidateOwner matches on.
func Key(ownerID string, parts ...string) string {
	return ownerID + "/" + strings.Join(parts, "/")
}

// ownerPrefix returns the prefix that all keys for ownerID share.
func ownerPrefix(ownerID string) string {
	return ownerID + "/"
}

// Sweeper runs periodic expired-entry cleanup for registered caches.
type Sweeper struct {
	caches []interface{ CleanExpired() int }
	stop   chan struct{}
	done   chan struct{}
}

func NewSweeper() *Sweeper {
	return &Sweeper{stop: make(chan struct{}), done: make(chan struct{})}
}

func (s *Sweeper) Register(c interface{ CleanExpired() int }) {
	s.caches = append(s.caches, c)
}

func (s *Sweeper) Start(interval time.Duration) {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				for _, c := range s.caches {
					c.CleanExpired()
				}
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}
