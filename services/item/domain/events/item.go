package events

import (
	"time"

	"github.com/google/uuid"
)

// ItemAction is the kind of mutation an ItemEvent describes.
type ItemAction string

// Actions carried in ItemEvent.Action.
const (
	ActionAdd    ItemAction = "ADD"
	ActionModify ItemAction = "MODIFY"
	ActionDelete ItemAction = "DELETE"
)

// PartitionKeyMetadata is the message metadata key carrying the partition
// affinity key. Events for the same item always share a partition so
// consumers observe them in order.
const PartitionKeyMetadata = "partition_key"

// ItemEvent is the notification published after every item mutation.
// Delivery is best-effort: a failed publish is logged and dropped, never
// retried, and never fails the originating request.
type ItemEvent struct {
	EventID      uuid.UUID  `json:"eventId"`
	ItemID       uuid.UUID  `json:"itemId"`
	Action       ItemAction `json:"action"`
	Message      string     `json:"message"`
	CreationTime time.Time  `json:"creationTime"`
	OriginID     string     `json:"originId"`
}

// NewItemEvent builds an event record for the given mutation with a fresh
// event ID and the current timestamp.
func NewItemEvent(itemID uuid.UUID, action ItemAction, message, originID string) ItemEvent {
	return ItemEvent{
		EventID:      uuid.New(),
		ItemID:       itemID,
		Action:       action,
		Message:      message,
		CreationTime: time.Now().UTC(),
		OriginID:     originID,
	}
}
