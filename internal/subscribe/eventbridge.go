package subscribe

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"
)

// eventBridgeBatchLimit is EventBridge's PutEvents batch size ceiling.
const eventBridgeBatchLimit = 10

// wireEvent is the JSON shape published to EventBridge for one Event.
type wireEvent struct {
	Subscription string    `json:"subscription"`
	NodeID       string    `json:"node_id"`
	Kind         EventKind `json:"kind"`
	Field        string    `json:"field,omitempty"`
}

// EventBridgePublisher fans deferred subscription events out to AWS
// EventBridge, one PutEvents entry per event, batched to the service's
// 10-entries-per-call limit.
type EventBridgePublisher struct {
	client       *eventbridge.Client
	eventBusName string
	source       string
	log          *zap.Logger
}

// NewEventBridgePublisher wires a Publisher backed by EventBridge.
func NewEventBridgePublisher(client *eventbridge.Client, eventBusName string, log *zap.Logger) *EventBridgePublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &EventBridgePublisher{client: client, eventBusName: eventBusName, source: "graphdb.subscribe", log: log}
}

// Publish implements Publisher.
func (p *EventBridgePublisher) Publish(ctx context.Context, events []Event) error {
	for i := 0; i < len(events); i += eventBridgeBatchLimit {
		end := i + eventBridgeBatchLimit
		if end > len(events) {
			end = len(events)
		}
		if err := p.publishBatch(ctx, events[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (p *EventBridgePublisher) publishBatch(ctx context.Context, batch []Event) error {
	entries := make([]types.PutEventsRequestEntry, 0, len(batch))
	for _, e := range batch {
		data, err := json.Marshal(wireEvent{
			Subscription: e.Subscription.String(),
			NodeID:       e.NodeID.String(),
			Kind:         e.Kind,
			Field:        e.Field,
		})
		if err != nil {
			p.log.Error("failed to marshal subscription event", zap.Error(err))
			continue
		}
		entries = append(entries, types.PutEventsRequestEntry{
			EventBusName: aws.String(p.eventBusName),
			Source:       aws.String(p.source),
			DetailType:   aws.String(detailType(e.Kind)),
			Detail:       aws.String(string(data)),
			Time:         aws.Time(e.At),
			Resources:    []string{fmt.Sprintf("arn:graphdb::node/%s", e.NodeID.String())},
		})
	}
	if len(entries) == 0 {
		return nil
	}

	out, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{Entries: entries})
	if err != nil {
		return fmt.Errorf("publish to eventbridge: %w", err)
	}
	if out.FailedEntryCount > 0 {
		for i, entry := range out.Entries {
			if entry.ErrorCode != nil {
				p.log.Error("event failed to publish",
					zap.String("errorCode", *entry.ErrorCode),
					zap.String("nodeID", batch[i].NodeID.String()),
				)
			}
		}
		return fmt.Errorf("%d events failed to publish", out.FailedEntryCount)
	}
	return nil
}

func detailType(k EventKind) string {
	switch k {
	case EventFieldChange:
		return "subscription.field_changed"
	case EventCreated:
		return "subscription.node_created"
	case EventUpdated:
		return "subscription.node_updated"
	case EventDeleted:
		return "subscription.node_deleted"
	default:
		return "subscription.unknown"
	}
}
