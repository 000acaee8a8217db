// Package cache wraps golang-lru with eviction statistics for shadergen's compiled program
// cache.
//
//	c := cache.New[string, *shadergen.Program](512)
//	c.Set(key, program)
//	program, ok := c.Get(key)
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
