// internal/cache/lru.go
//
// Small LRU cache used by the relay to hold per-visitor form instances.
// Entries also expire after an idle TTL so abandoned visitors do not pin
// memory until capacity pressure pushes them out.  No external deps; good
// for tens of thousands of entries.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRU is a mutex-guarded least-recently-used cache with idle expiry.
type LRU[K comparable, V any] struct {
	mu      sync.Mutex
	cap     int
	ttl     time.Duration // 0 disables idle expiry
	ll      *list.List
	dict    map[K]*list.Element
	onEvict func(K, V)
	keep    func(V) bool // entries it reports true for are never dropped
	now     func() time.Time
}

type entry[K comparable, V any] struct {
	key  K
	val  V
	seen time.Time
}

// New returns an LRU with the given capacity.  onEvict, when non-nil, runs
// for every entry dropped by capacity or expiry.  Panics on capacity < 1.
func New[K comparable, V any](capacity int, ttl time.Duration, onEvict func(K, V)) *LRU[K, V] {
	if capacity < 1 {
		panic("cache: capacity must be ≥1")
	}
	return &LRU[K, V]{
		cap:     capacity,
		ttl:     ttl,
		ll:      list.New(),
		dict:    make(map[K]*list.Element, capacity),
		onEvict: onEvict,
		now:     time.Now,
	}
}

// Get retrieves a live value and marks it MRU.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getLocked(key)
}

// GetOrAdd returns the cached value for key, or stores and returns the
// result of create.  create runs under the cache lock and must not call
// back into the cache.
func (c *LRU[K, V]) GetOrAdd(key K, create func() (V, error)) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.getLocked(key); ok {
		return v, nil
	}
	v, err := create()
	if err != nil {
		var zero V
		return zero, err
	}
	c.addLocked(key, v)
	return v, nil
}

// SetKeep installs a predicate that protects busy entries from capacity
// and idle eviction.  It runs under the cache lock.  When every entry is
// kept the cache grows past capacity until one is released.
func (c *LRU[K, V]) SetKeep(keep func(V) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keep = keep
}

// Prune drops every expired entry and reports how many went.
func (c *LRU[K, V]) Prune() int {
	if c.ttl <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int
	for ele := c.ll.Back(); ele != nil; {
		prev := ele.Prev()
		if c.expired(ele.Value.(*entry[K, V])) {
			c.removeLocked(ele)
			n++
		}
		ele = prev
	}
	return n
}

// Len reports current size.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

/*──────────────────────────── internals ───────────────────────────────────*/

func (c *LRU[K, V]) getLocked(key K) (V, bool) {
	ele, hit := c.dict[key]
	if !hit {
		var zero V
		return zero, false
	}
	ent := ele.Value.(*entry[K, V])
	if c.expired(ent) {
		c.removeLocked(ele)
		var zero V
		return zero, false
	}
	ent.seen = c.now()
	c.ll.MoveToFront(ele)
	return ent.val, true
}

func (c *LRU[K, V]) addLocked(key K, val V) {
	c.dict[key] = c.ll.PushFront(&entry[K, V]{key: key, val: val, seen: c.now()})
	if c.ll.Len() <= c.cap {
		return
	}
	front := c.ll.Front()
	for ele := c.ll.Back(); ele != front; ele = ele.Prev() {
		if !c.kept(ele.Value.(*entry[K, V])) {
			c.removeLocked(ele)
			return
		}
	}
}

func (c *LRU[K, V]) removeLocked(ele *list.Element) {
	ent := ele.Value.(*entry[K, V])
	c.ll.Remove(ele)
	delete(c.dict, ent.key)
	if c.onEvict != nil {
		c.onEvict(ent.key, ent.val)
	}
}

func (c *LRU[K, V]) expired(ent *entry[K, V]) bool {
	return c.ttl > 0 && c.now().Sub(ent.seen) > c.ttl && !c.kept(ent)
}

func (c *LRU[K, V]) kept(ent *entry[K, V]) bool {
	return c.keep != nil && c.keep(ent.val)
}
