// Package economy carries the typed shop and inventory log events.
package economy

import (
	"context"

	"astral-arena/server/logging"
)

const (
	// EventPurchase is emitted for every purchase attempt, successful or not.
	EventPurchase logging.EventType = "economy.purchase"
	// EventReroll is emitted for every reroll attempt.
	EventReroll logging.EventType = "economy.reroll"
	// EventItemUsed is emitted for every item application attempt.
	EventItemUsed logging.EventType = "economy.item_used"
)

// PurchasePayload describes a shop purchase attempt.
type PurchasePayload struct {
	Slot    int    `json:"slot"`
	Kind    string `json:"kind,omitempty"`
	Cost    int    `json:"cost,omitempty"`
	Outcome string `json:"outcome"`
	Gold    int    `json:"gold"`
}

// RerollPayload describes a reroll attempt and the escalating cost.
type RerollPayload struct {
	Cost    int    `json:"cost"`
	Rerolls int    `json:"rerolls"`
	Outcome string `json:"outcome"`
	Gold    int    `json:"gold"`
}

// ItemUsedPayload describes an item application attempt.
type ItemUsedPayload struct {
	Item    string `json:"item"`
	Applied bool   `json:"applied"`
	Reason  string `json:"reason,omitempty"`
}

// Purchase publishes a shop purchase event.
func Purchase(ctx context.Context, pub logging.Publisher, round int, actor logging.EntityRef, payload PurchasePayload) {
	if pub == nil {
		return
	}
	severity := logging.SeverityInfo
	if payload.Outcome != "purchased" {
		severity = logging.SeverityWarn
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPurchase,
		Round:    round,
		Actor:    actor,
		Severity: severity,
		Category: logging.CategoryEconomy,
		Payload:  payload,
	})
}

// Reroll publishes a shop reroll event.
func Reroll(ctx context.Context, pub logging.Publisher, round int, actor logging.EntityRef, payload RerollPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventReroll,
		Round:    round,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryEconomy,
		Payload:  payload,
	})
}

// ItemUsed publishes an item use event.
func ItemUsed(ctx context.Context, pub logging.Publisher, round int, actor logging.EntityRef, payload ItemUsedPayload) {
	if pub == nil {
		return
	}
	severity := logging.SeverityInfo
	if !payload.Applied {
		severity = logging.SeverityWarn
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventItemUsed,
		Round:    round,
		Actor:    actor,
		Severity: severity,
		Category: logging.CategoryEconomy,
		Payload:  payload,
	})
}
