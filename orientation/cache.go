package orientation

import "github.com/go-gl/mathgl/mgl64"

// Cache holds a lazily computed matrix. The zero value is dirty.
//
// Each transform-owning entity keeps its own Cache: invalidation is never
// shared between entities.
type Cache struct {
	valid  bool
	matrix mgl64.Mat4
}

// Invalidate marks the cached matrix as stale
func (c *Cache) Invalidate() {
	c.valid = false
}

// Dirty reports whether the next Resolve will recompute
func (c *Cache) Dirty() bool {
	return !c.valid
}

// Resolve returns the cached matrix, calling compute first if it is stale
func (c *Cache) Resolve(compute func() mgl64.Mat4) mgl64.Mat4 {
	if !c.valid {
		c.matrix = compute()
		c.valid = true
	}

	return c.matrix
}
