package wire

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestShipTypeValid(t *testing.T) {
	valid := []ShipType{ShipScout, ShipFighter, ShipCruiser, ShipDestroyer}
	for _, v := range valid {
		if !v.Valid() {
			t.Errorf("%s should be valid", v)
		}
	}
	if ShipType("dreadnought").Valid() {
		t.Error("unknown ship class should not be valid")
	}
}

func TestClientMsgInputTickRoundTrip(t *testing.T) {
	original := ClientMsg{
		Type: ClientMsgInputTick, Seq: 42, Throttle: 0.5, Steer: -0.25, Shoot: true, AimYaw: 1.2,
	}
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded ClientMsg
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != original {
		t.Fatalf("round trip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestClientMsgTypeDiscriminatorOnWire(t *testing.T) {
	data, err := json.Marshal(ClientMsg{Type: ClientMsgJoinMatch, ShipType: ShipCruiser})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if raw["type"] != "join_match" {
		t.Fatalf(`type field = %v, want "join_match"`, raw["type"])
	}
	if raw["ship_type"] != "cruiser" {
		t.Fatalf(`ship_type field = %v, want "cruiser"`, raw["ship_type"])
	}
}

func TestServerMsgSnapshotRoundTrip(t *testing.T) {
	uid := uuid.New()
	original := ServerMsg{
		Type: ServerMsgSnapshot,
		Tick: 100,
		Zone: &ZoneState{Radius: 1500, TargetRadius: 1500, Phase: 0},
		PlayerSnaps: []PlayerSnapshot{
			{UserID: uid, X: 1, Y: 2, Health: 80, Alive: true},
		},
		Events: []GameEvent{
			{EventType: EventHit, TargetID: &uid, Damage: 12},
		},
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded ServerMsg
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Tick != original.Tick || decoded.Zone.Radius != original.Zone.Radius {
		t.Fatalf("snapshot round trip mismatch: got %+v", decoded)
	}
	if len(decoded.PlayerSnaps) != 1 || decoded.PlayerSnaps[0].UserID != uid {
		t.Fatalf("player snapshot round trip mismatch: got %+v", decoded.PlayerSnaps)
	}
	if len(decoded.Events) != 1 || decoded.Events[0].EventType != EventHit {
		t.Fatalf("event round trip mismatch: got %+v", decoded.Events)
	}
	if decoded.Events[0].TargetID == nil || *decoded.Events[0].TargetID != uid {
		t.Fatalf("hit event target_id round trip mismatch: got %+v", decoded.Events[0].TargetID)
	}
}

func TestGameEventOmitsUnsetIDFields(t *testing.T) {
	data, err := json.Marshal(GameEvent{EventType: EventZoneShrink, Phase: 2, NewRadius: 300})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for _, field := range []string{"shooter_id", "projectile_id", "target_id", "killer_id", "victim_id", "user_id"} {
		if _, present := raw[field]; present {
			t.Fatalf("zone_shrink event should not carry %s, got %+v", field, raw)
		}
	}
}

func TestServerMsgOmitsUnsetUserID(t *testing.T) {
	data, err := json.Marshal(ServerMsg{Type: ServerMsgPong, T: 1})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, present := raw["user_id"]; present {
		t.Fatal("pong message should not carry a user_id field")
	}
}

func TestServerMsgOmitsZeroFields(t *testing.T) {
	data, err := json.Marshal(ServerMsg{Type: ServerMsgPong, T: 0})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, present := raw["t"]; present {
		t.Fatal("zero-value t should be omitted from the wire payload")
	}
	if _, present := raw["stats"]; present {
		t.Fatal("nil stats pointer should be omitted from the wire payload")
	}
}
