package activity

import (
	"testing"
	"time"
)

func TestBuildItemUpdatedEventRecordsChangedFields(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	event := BuildItemUpdatedEvent(ItemEventInput{
		ActorID:    " clerk ",
		Channel:    "inventory",
		Item:       ItemSnapshot{ID: 2, Name: "Barang B", Stock: "8", Price: "Rp 0"},
		Previous:   &ItemSnapshot{ID: 2, Name: "Barang B", Stock: float64(5), Price: "Rp 0"},
		Position:   1,
		Metadata:   map[string]any{"source": "tui"},
		OccurredAt: at,
	})

	if event.Verb != VerbItemUpdated || event.ObjectType != ObjectTypeItem || event.ObjectID != "2" {
		t.Fatalf("unexpected object fields: %+v", event)
	}
	if event.ActorID != "clerk" {
		t.Fatalf("expected trimmed actor, got %q", event.ActorID)
	}
	if event.Metadata["stock"] != "8" || event.Metadata["old_stock"] != float64(5) {
		t.Fatalf("expected stock change recorded, got %+v", event.Metadata)
	}
	if _, ok := event.Metadata["old_name"]; ok {
		t.Fatalf("unchanged name should not be recorded: %+v", event.Metadata)
	}
	if event.Metadata["source"] != "tui" || event.Metadata["position"] != 1 {
		t.Fatalf("expected caller metadata preserved, got %+v", event.Metadata)
	}
	if !event.OccurredAt.Equal(at) {
		t.Fatalf("expected occurred_at preserved")
	}
}

func TestBuildItemAddedAndDeletedVerbs(t *testing.T) {
	item := ItemSnapshot{ID: 4, Name: "Barang Baru", Stock: float64(0), Price: "Rp"}
	added := BuildItemAddedEvent(ItemEventInput{Item: item, Position: 3})
	deleted := BuildItemDeletedEvent(ItemEventInput{Item: item})

	if added.Verb != VerbItemAdded || deleted.Verb != VerbItemDeleted {
		t.Fatalf("unexpected verbs %q %q", added.Verb, deleted.Verb)
	}
	if added.ObjectID != "4" || added.Metadata["name"] != "Barang Baru" {
		t.Fatalf("unexpected added event: %+v", added)
	}
	if added.OccurredAt.IsZero() {
		t.Fatalf("expected occurred_at default")
	}
}
