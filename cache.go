package shadergen

import (
	"context"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/gogpu/shadergen/internal/cache"
)

// DefaultCacheCapacity is the program limit of NewProgramCache(0).
const DefaultCacheCapacity = 1024

// ProgramCache shares compiled programs between generators. Concurrent
// requests for the same permutation compile it once.
//
// ProgramCache is safe for concurrent use.
type ProgramCache struct {
	programs *cache.Cache[string, *Program]
	group    singleflight.Group

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewProgramCache creates a cache holding at most capacity programs.
// A capacity of 0 selects DefaultCacheCapacity; a negative capacity means
// unlimited.
func NewProgramCache(capacity int) *ProgramCache {
	if capacity == 0 {
		capacity = DefaultCacheCapacity
	}
	return &ProgramCache{programs: cache.New[string, *Program](capacity)}
}

// getOrCompile returns the cached program for key, building it on a miss.
// Concurrent misses share one build, which runs under a context detached
// from any single caller's cancellation; each caller still returns as soon
// as its own ctx is done.
func (c *ProgramCache) getOrCompile(ctx context.Context, key string, build func(context.Context) (*Program, error)) (*Program, error) {
	if p, ok := c.programs.Get(key); ok {
		c.hits.Add(1)
		Logger().Debug("shadergen: program cache hit", "key", key)
		return p, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		if p, ok := c.programs.Get(key); ok {
			return p, nil
		}
		c.misses.Add(1)
		Logger().Debug("shadergen: program cache miss", "key", key)
		p, err := build(detached)
		if err != nil {
			return nil, err
		}
		c.programs.Set(key, p)
		return p, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*Program), nil
	}
}

// Len returns the number of cached programs.
func (c *ProgramCache) Len() int { return c.programs.Len() }

// Clear drops every cached program.
func (c *ProgramCache) Clear() {
	c.programs.Clear()
	Logger().Debug("shadergen: program cache cleared")
}

// InvalidateTemplate drops every program compiled from template, matched
// on the template file name with or without extension, and reports how
// many were dropped.
func (c *ProgramCache) InvalidateTemplate(template string) int {
	base := strings.TrimSuffix(template, templateExt(template))
	n := c.programs.DeleteFunc(func(_ string, p *Program) bool {
		return p.Template == template || strings.TrimSuffix(p.Template, templateExt(p.Template)) == base
	})
	if n > 0 {
		Logger().Debug("shadergen: invalidated programs", "template", template, "count", n)
	}
	return n
}

func templateExt(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || strings.ContainsAny(name[i:], `/\`) {
		return ""
	}
	return name[i:]
}

// Stats returns cache statistics.
func (c *ProgramCache) Stats() CacheStats {
	s := c.programs.Stats()
	return CacheStats{
		Programs:  s.Len,
		Capacity:  s.Capacity,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: s.Evictions,
	}
}

// CacheStats contains program cache statistics.
type CacheStats struct {
	Programs  int    `yaml:"programs"`
	Capacity  int    `yaml:"capacity"`
	Hits      uint64 `yaml:"hits"`
	Misses    uint64 `yaml:"misses"`
	Evictions uint64 `yaml:"evictions"`
}
