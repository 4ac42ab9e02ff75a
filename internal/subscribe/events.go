package subscribe

import (
	"context"
	"time"

	"graphdb/internal/ids"
)

// EventKind distinguishes field-change events from create/update/delete
// triggers (§4.9 steps 3-4).
type EventKind uint8

const (
	EventFieldChange EventKind = iota
	EventCreated
	EventUpdated
	EventDeleted
)

// Event is one deferred notification bound for a subscription.
type Event struct {
	Subscription SubscriptionID
	NodeID       ids.NodeId
	Kind         EventKind
	Field        string // set only for EventFieldChange
	At           time.Time
}

// dedupKey identifies events that should collapse to one dispatch per
// subscription (§4.9 step 5: "de-duplicated per subscription").
func (e Event) dedupKey() string {
	k := string(e.Subscription[:]) + string(rune(e.Kind))
	if e.Kind == EventFieldChange {
		k += "|" + e.Field
	}
	return k
}

// Publisher fans deferred events out to an external sink (e.g. the
// EventBridge adapter wired in the DOMAIN STACK). Implementations must
// be safe to call with zero events.
type Publisher interface {
	Publish(ctx context.Context, events []Event) error
}

// NoopPublisher discards events; used when no external sink is wired.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, []Event) error { return nil }
