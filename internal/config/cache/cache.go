// Package cache keeps parsed interface configurations keyed by the content
// hash of their YAML document.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/awmpietro/golang-vcd-transaction-case/internal/detect"
)

type call struct {
	done  chan struct{}
	specs []detect.InterfaceSpec
	err   error
}

// InMemory is a bounded cache: once max entries are stored new documents are
// parsed on every request but not retained. Returned slices are shared and
// must not be modified.
type InMemory struct {
	mu       sync.Mutex
	max      int
	items    map[string][]detect.InterfaceSpec
	inflight map[string]*call
}

func NewInMemory(max int) *InMemory {
	return &InMemory{
		max:      max,
		items:    make(map[string][]detect.InterfaceSpec, max),
		inflight: make(map[string]*call),
	}
}

// GetOrCompute returns the cached value for doc or runs fn once for all
// concurrent callers of the same document. Errors are not cached.
func (c *InMemory) GetOrCompute(doc string, fn func() ([]detect.InterfaceSpec, error)) ([]detect.InterfaceSpec, error) {
	key := hash(doc)

	c.mu.Lock()
	if v, ok := c.items[key]; ok {
		c.mu.Unlock()
		return v, nil
	}
	if cl, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		<-cl.done
		return cl.specs, cl.err
	}
	cl := &call{done: make(chan struct{})}
	c.inflight[key] = cl
	c.mu.Unlock()

	compute(cl, fn)

	c.mu.Lock()
	delete(c.inflight, key)
	if cl.err == nil && len(c.items) < c.max {
		c.items[key] = cl.specs
	}
	c.mu.Unlock()
	close(cl.done)

	return cl.specs, cl.err
}

func (c *InMemory) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func compute(cl *call, fn func() ([]detect.InterfaceSpec, error)) {
	defer func() {
		if r := recover(); r != nil {
			cl.specs, cl.err = nil, fmt.Errorf("config parse panicked: %v", r)
		}
	}()
	cl.specs, cl.err = fn()
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
