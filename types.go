package inventory

import (
	"context"
	"strings"
	"time"
)

// Item is one inventory row. Items are comparable so callers can diff
// snapshots with ==.
type Item struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Stock Stock  `json:"stock"`
	Price string `json:"price"`
}

// Field names one editable column of an Item.
type Field string

const (
	FieldName  Field = "name"
	FieldStock Field = "stock"
	FieldPrice Field = "price"
)

// ParseField converts user input (input names, column headers) into a Field.
func ParseField(value string) (Field, bool) {
	switch Field(strings.ToLower(strings.TrimSpace(value))) {
	case FieldName:
		return FieldName, true
	case FieldStock:
		return FieldStock, true
	case FieldPrice:
		return FieldPrice, true
	default:
		return "", false
	}
}

// EditSession is the scratch copy of the single row being edited.
type EditSession struct {
	TargetID int
	Name     string
	Stock    Stock
	Price    string
}

func newEditSession(item Item) *EditSession {
	return &EditSession{
		TargetID: item.ID,
		Name:     item.Name,
		Stock:    item.Stock,
		Price:    item.Price,
	}
}

// apply writes the scratch values over item, keeping the id.
func (s EditSession) apply(item Item) Item {
	item.Name = s.Name
	item.Stock = s.Stock
	item.Price = s.Price
	return item
}

// SeedItems returns the placeholder rows used when storage holds no
// readable inventory.
func SeedItems() []Item {
	return []Item{
		{ID: 1, Name: "Barang A", Stock: StockNumber(10), Price: "Rp 0"},
		{ID: 2, Name: "Barang B", Stock: StockNumber(5), Price: "Rp 0"},
		{ID: 3, Name: "Barang C", Stock: StockNumber(2), Price: "Rp 0"},
	}
}

// NewItem builds the placeholder row appended by Add.
func NewItem(id int) Item {
	return Item{ID: id, Name: "Barang Baru", Stock: StockNumber(0), Price: "Rp"}
}

func cloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// indexesOf returns every position holding id. Ids repeat only in lists
// built under the length policy; such rows are one logical item.
func indexesOf(items []Item, id int) []int {
	var out []int
	for i := range items {
		if items[i].ID == id {
			out = append(out, i)
		}
	}
	return out
}

func indexOf(items []Item, id int) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// Severity classifies a notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a fire-and-forget toast.
type Notification struct {
	Severity Severity
	Title    string
	Message  string
	Position string
	Duration time.Duration
	Theme    string
}

// Notifier displays toasts. Implementations must not block on user input.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, n Notification) {
	if f != nil {
		f(ctx, n)
	}
}

// Confirmation describes a blocking yes/no prompt.
type Confirmation struct {
	Title        string
	Text         string
	Icon         string
	ConfirmLabel string
	CancelLabel  string
}

// Confirmer resolves a Confirmation to true (confirmed) or false (declined).
// Confirm may block until the user answers or ctx is done.
type Confirmer interface {
	Confirm(ctx context.Context, c Confirmation) (bool, error)
}

// ConfirmerFunc adapts a function to Confirmer.
type ConfirmerFunc func(ctx context.Context, c Confirmation) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmerFunc) Confirm(ctx context.Context, c Confirmation) (bool, error) {
	if f == nil {
		return false, nil
	}
	return f(ctx, c)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, Notification) {}

// declineConfirmer is the default so deletes never happen without an
// explicit confirmer.
type declineConfirmer struct{}

func (declineConfirmer) Confirm(context.Context, Confirmation) (bool, error) { return false, nil }
