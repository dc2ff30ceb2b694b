// Package events is a typed publish/subscribe channel scoped to a single
// project-editing session. It replaces ambient window-level broadcast: a
// step that changes shared data publishes, sibling steps subscribe.
package events

import (
	"sync"

	"github.com/google/uuid"

	"github.com/nurpe/construction-projects/internal/model"
)

type Kind string

const (
	OwnersUpdated         Kind = "owners_updated"
	ClassificationChanged Kind = "classification_changed"
	ProjectPersisted      Kind = "project_persisted"
)

type Event struct {
	Kind           Kind
	ProjectID      uuid.UUID
	Owners         []model.Owner
	Classification model.Classification
	Draft          model.DraftRef
}

type Handler func(Event)

// Bus delivers events synchronously in publish order. One bus per editing
// session; it is never shared across sessions.
type Bus struct {
	mu       sync.Mutex
	handlers map[Kind][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[Kind][]Handler)}
}

func (b *Bus) Subscribe(kind Kind, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[kind] = append(b.handlers[kind], h)
}

func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	handlers := append([]Handler(nil), b.handlers[e.Kind]...)
	b.mu.Unlock()

	for _, h := range handlers {
		h(e)
	}
}
