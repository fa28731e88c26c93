// Package background holds the blurred backdrop image the app shell renders
// behind the current view.
//
// A Context is passed explicitly to whoever may publish into it. Publishing
// hands back a Lease; only the current lease holder can clear the value, so a
// late Release from a viewer that was already replaced is harmless.
package background

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Context is the shell-lifetime background state. The zero value is an
// empty Context with no change listener.
type Context struct {
	mu       sync.Mutex
	url      string
	owner    uuid.UUID
	set      bool
	onChange func(url string, ok bool)
}

// New creates an empty Context. onChange, if non-nil, is called after every
// change with the new value; it runs with the Context unlocked.
func New(onChange func(url string, ok bool)) *Context {
	return &Context{onChange: onChange}
}

// Lease is the right to the currently published value.
type Lease struct {
	ctx  *Context
	id   uuid.UUID
	once sync.Once
}

// ID identifies the lease, mainly for logging.
func (l *Lease) ID() string { return l.id.String() }

// Current returns the published URL, if any.
func (c *Context) Current() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.url, c.set
}

// Publish sets url as the background and makes the returned lease its sole
// owner. Any previous lease loses ownership.
func (c *Context) Publish(url string) *Lease {
	l := &Lease{ctx: c, id: uuid.New()}

	c.mu.Lock()
	if c.set && c.owner != uuid.Nil {
		log.Printf("background: lease %s replaced by %s", c.owner, l.id)
	}
	c.url = url
	c.owner = l.id
	c.set = true
	c.mu.Unlock()

	c.notify(url, true)
	return l
}

// Release clears the background if l still owns it. Calling it more than
// once, or after another lease took over, does nothing.
func (l *Lease) Release() {
	if l == nil {
		return
	}
	l.once.Do(func() {
		c := l.ctx
		c.mu.Lock()
		if !c.set || c.owner != l.id {
			c.mu.Unlock()
			return
		}
		c.url = ""
		c.owner = uuid.Nil
		c.set = false
		c.mu.Unlock()

		c.notify("", false)
	})
}

// Owns reports whether l is the current owner.
func (l *Lease) Owns() bool {
	if l == nil {
		return false
	}
	c := l.ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.set && c.owner == l.id
}

func (c *Context) notify(url string, ok bool) {
	if c.onChange != nil {
		c.onChange(url, ok)
	}
}
