package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/construction-projects/internal/model"
)

func TestBusDeliversToSubscribedKindOnly(t *testing.T) {
	bus := NewBus()

	var got []Event
	bus.Subscribe(OwnersUpdated, func(e Event) { got = append(got, e) })

	bus.Publish(Event{Kind: ClassificationChanged, Classification: model.ClassificationHousingLoan})
	assert.Empty(t, got)

	bus.Publish(Event{Kind: OwnersUpdated, Owners: []model.Owner{{OwnerNameAr: "سالم"}}})
	require.Len(t, got, 1)
	assert.Equal(t, "سالم", got[0].Owners[0].OwnerNameAr)
}

func TestBusMultipleSubscribersInOrder(t *testing.T) {
	bus := NewBus()
	var order []int
	bus.Subscribe(ProjectPersisted, func(Event) { order = append(order, 1) })
	bus.Subscribe(ProjectPersisted, func(Event) { order = append(order, 2) })

	bus.Publish(Event{Kind: ProjectPersisted})
	assert.Equal(t, []int{1, 2}, order)
}
