package amqp

import (
	"testing"
	"time"
)

func TestMovementEventRoundTrip(t *testing.T) {
	msg := NewMovementEvent("acc-1", "account")
	if msg.Timestamp.IsZero() {
		t.Fatal("timestamp not set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := MovementEventFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.OwnerID != "acc-1" || decoded.OwnerKind != "account" {
		t.Fatalf("fields lost: %+v", decoded)
	}
	if !decoded.Timestamp.Truncate(time.Second).Equal(msg.Timestamp.Truncate(time.Second)) {
		t.Fatalf("timestamp drifted: %v vs %v", decoded.Timestamp, msg.Timestamp)
	}
}

func TestMovementEventFromJSONRejectsGarbage(t *testing.T) {
	if _, err := MovementEventFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected error")
	}
}
