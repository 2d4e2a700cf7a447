package view

import "sync"

// Surface names match the element ids of the storefront page so the client
// can swap fragments in place. Badge surfaces mirror the page's .cart-count
// elements and all receive the same item count.
const (
	SurfaceDrawerItems  = "drawerItems"
	SurfaceDrawerTotal  = "drawerTotal"
	SurfaceModalSummary = "modalResumen"
	SurfaceConfirmation = "successInfo"
	SurfaceNotices      = "notifList"

	BadgeNavbar = "cart-count:navbar"
	BadgeDrawer = "cart-count:drawer"
)

// Surface is one addressable render target. Its content is always replaced
// whole, never patched.
type Surface struct {
	mu      sync.RWMutex
	content string
}

// Set replaces the surface content.
func (s *Surface) Set(content string) {
	s.mu.Lock()
	s.content = content
	s.mu.Unlock()
}

// Contents returns the current content.
func (s *Surface) Contents() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.content
}

// Page is the registry of render targets available on the current screen.
// Not every screen mounts every surface; renderers look targets up and skip
// the absent ones.
type Page struct {
	mu       sync.RWMutex
	surfaces map[string]*Surface
	badges   []string
}

// NewPage builds an empty page with no surfaces mounted.
func NewPage() *Page {
	return &Page{surfaces: map[string]*Surface{}}
}

// DefaultPage mounts every surface the storefront screen uses.
func DefaultPage() *Page {
	p := NewPage()
	p.Register(SurfaceDrawerItems)
	p.Register(SurfaceDrawerTotal)
	p.Register(SurfaceModalSummary)
	p.Register(SurfaceConfirmation)
	p.Register(SurfaceNotices)
	p.RegisterBadge(BadgeNavbar)
	p.RegisterBadge(BadgeDrawer)
	return p
}

// Register mounts a surface under the given name, returning the existing one
// when already mounted.
func (p *Page) Register(name string) *Surface {
	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, ok := p.surfaces[name]; ok {
		return existing
	}
	s := &Surface{}
	p.surfaces[name] = s
	return s
}

// RegisterBadge mounts a surface and marks it as an item-count badge.
func (p *Page) RegisterBadge(name string) *Surface {
	s := p.Register(name)
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, b := range p.badges {
		if b == name {
			return s
		}
	}
	p.badges = append(p.badges, name)
	return s
}

// Lookup returns the surface mounted under name, if any.
func (p *Page) Lookup(name string) (*Surface, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.surfaces[name]
	return s, ok
}

// BadgeNames returns the registered badge surface names in mount order.
func (p *Page) BadgeNames() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, len(p.badges))
	copy(out, p.badges)
	return out
}

// Snapshot returns the current content of every mounted surface.
func (p *Page) Snapshot() map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]string, len(p.surfaces))
	for name, s := range p.surfaces {
		out[name] = s.Contents()
	}
	return out
}
