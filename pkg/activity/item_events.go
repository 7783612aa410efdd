package activity

import (
	"strconv"
	"time"
)

const (
	// ObjectTypeItem is the object type of every inventory row event.
	ObjectTypeItem = "inventory.item"

	VerbItemAdded   = "inventory.item.added"
	VerbItemUpdated = "inventory.item.updated"
	VerbItemDeleted = "inventory.item.deleted"
)

// ItemSnapshot is the subset of a row carried in event metadata.
type ItemSnapshot struct {
	ID    int
	Name  string
	Stock any
	Price string
}

// ItemEventInput describes the common fields for row lifecycle events.
type ItemEventInput struct {
	ActorID    string
	TenantID   string
	Channel    string
	Item       ItemSnapshot
	Previous   *ItemSnapshot
	Position   int
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildItemAddedEvent constructs an event for a row appended by Add.
func BuildItemAddedEvent(input ItemEventInput) Event {
	return buildItemEvent(VerbItemAdded, input)
}

// BuildItemUpdatedEvent constructs an event for a row committed by Save.
func BuildItemUpdatedEvent(input ItemEventInput) Event {
	return buildItemEvent(VerbItemUpdated, input)
}

// BuildItemDeletedEvent constructs an event for a row removed by Delete.
func BuildItemDeletedEvent(input ItemEventInput) Event {
	return buildItemEvent(VerbItemDeleted, input)
}

func buildItemEvent(verb string, input ItemEventInput) Event {
	metadata := cloneMap(input.Metadata)
	metadata = ensureMetadata(metadata)
	metadata["name"] = input.Item.Name
	metadata["stock"] = input.Item.Stock
	metadata["price"] = input.Item.Price
	metadata["position"] = input.Position
	if prev := input.Previous; prev != nil {
		if prev.Name != input.Item.Name {
			metadata["old_name"] = prev.Name
		}
		if prev.Stock != input.Item.Stock {
			metadata["old_stock"] = prev.Stock
		}
		if prev.Price != input.Item.Price {
			metadata["old_price"] = prev.Price
		}
	}

	return NormalizeEvent(Event{
		Verb:       verb,
		ActorID:    input.ActorID,
		TenantID:   input.TenantID,
		ObjectType: ObjectTypeItem,
		ObjectID:   strconv.Itoa(input.Item.ID),
		Channel:    input.Channel,
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	})
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
