package store

import (
	"aurum-core/internal/domain/entity"
	"container/list"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// ReplyCache holds chat replies for a fixed TTL and keeps at most maxEntries of them,
// evicting in insertion order. Re-setting an existing key keeps its original position.
type ReplyCache struct {
	mu         sync.Mutex
	items      *cache.Cache
	order      *list.List
	index      map[string]*list.Element
	maxEntries int
}

func NewReplyCache(ttl time.Duration, maxEntries int) *ReplyCache {
	return &ReplyCache{
		// No janitor: expired entries are dropped on lookup so order and items stay in step.
		items:      cache.New(ttl, 0),
		order:      list.New(),
		index:      make(map[string]*list.Element),
		maxEntries: maxEntries,
	}
}

func (c *ReplyCache) Get(key string) (*entity.ChatReply, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if x, found := c.items.Get(key); found {
		return x.(*entity.ChatReply), true
	}
	c.removeLocked(key)
	return nil, false
}

func (c *ReplyCache) Set(key string, reply *entity.ChatReply) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items.SetDefault(key, reply)
	if _, ok := c.index[key]; !ok {
		c.index[key] = c.order.PushBack(key)
	}

	for c.maxEntries > 0 && c.order.Len() > c.maxEntries {
		oldest := c.order.Front()
		c.removeLocked(oldest.Value.(string))
	}
}

func (c *ReplyCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *ReplyCache) removeLocked(key string) {
	if el, ok := c.index[key]; ok {
		c.order.Remove(el)
		delete(c.index, key)
	}
	c.items.Delete(key)
}
