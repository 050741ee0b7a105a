package render

import (
	"fmt"
	"sort"
	"sync"
)

// Surface is a named drawing target. It owns at most one live chart.
type Surface struct {
	id     string
	width  int
	height int

	pipeline sync.Mutex

	mu   sync.RWMutex
	live *Chart
}

// NewSurface creates an empty surface of the given pixel size
func NewSurface(id string, width, height int) *Surface {
	return &Surface{id: id, width: width, height: height}
}

func (s *Surface) ID() string  { return s.id }
func (s *Surface) Width() int  { return s.width }
func (s *Surface) Height() int { return s.height }

// Acquire blocks until no other render pipeline holds the surface. The
// returned func releases it.
func (s *Surface) Acquire() (release func()) {
	s.pipeline.Lock()
	return s.pipeline.Unlock
}

// Replace destroys the live chart, then builds, registers plugins on and
// draws a new one from cfg. An invalid cfg leaves the live chart in place.
// If drawing fails the surface is left empty.
func (s *Surface) Replace(cfg Config, plugins ...Plugin) (*Chart, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("surface %s: invalid chart config: %w", s.id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.live != nil {
		s.live.Destroy()
		s.live = nil
	}

	ch, err := NewChart(cfg, s.width, s.height)
	if err != nil {
		return nil, fmt.Errorf("surface %s: %w", s.id, err)
	}
	for _, p := range plugins {
		ch.Register(p)
	}
	if err := ch.Draw(); err != nil {
		ch.Destroy()
		return nil, fmt.Errorf("surface %s: %w", s.id, err)
	}
	s.live = ch
	return ch, nil
}

// Live returns the current chart, or nil if nothing has been drawn
func (s *Surface) Live() *Chart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.live
}

// Frame returns the PNG of the live chart
func (s *Surface) Frame() ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.live == nil {
		return nil, "", false
	}
	frame := s.live.Frame()
	if frame == nil {
		return nil, "", false
	}
	return frame, s.live.ID(), true
}

// Clear destroys the live chart, if any
func (s *Surface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live != nil {
		s.live.Destroy()
		s.live = nil
	}
}

// Board is the set of surfaces a process can draw on
type Board struct {
	mu       sync.RWMutex
	surfaces map[string]*Surface
}

// NewBoard creates an empty board
func NewBoard() *Board {
	return &Board{surfaces: make(map[string]*Surface)}
}

// Add registers a surface, returning the existing one if id is taken
func (b *Board) Add(id string, width, height int) *Surface {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.surfaces[id]; ok {
		return s
	}
	s := NewSurface(id, width, height)
	b.surfaces[id] = s
	return s
}

// Lookup finds a surface by id
func (b *Board) Lookup(id string) (*Surface, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.surfaces[id]
	return s, ok
}

// IDs lists the registered surface ids in sorted order
func (b *Board) IDs() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ids := make([]string, 0, len(b.surfaces))
	for id := range b.surfaces {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close destroys the live chart on every surface
func (b *Board) Close() {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.surfaces {
		s.Clear()
	}
}
