package model

import "testing"

func TestSubchannelOverlapRejected(t *testing.T) {
	e := NewEnsemble(0x4001, 0xE1, ModeI)
	sc1 := Subchannel{UID: "sub1", ID: 0, BitrateKbps: 48, StartCU: 0, Protection: Protection{Profile: ProfileA, Level: 3}}
	if err := e.AddSubchannel(sc1); err != nil {
		t.Fatalf("unexpected error adding sub1: %v", err)
	}
	sc2 := Subchannel{UID: "sub2", ID: 1, BitrateKbps: 48, StartCU: 10, Protection: Protection{Profile: ProfileA, Level: 3}}
	if err := e.AddSubchannel(sc2); err == nil {
		t.Fatalf("expected overlap error, got nil")
	}
}

func TestSubchannelCapacityExceeded(t *testing.T) {
	e := NewEnsemble(0x4001, 0xE1, ModeI)
	sc := Subchannel{UID: "sub1", ID: 0, BitrateKbps: 48, StartCU: 860, Protection: Protection{Profile: ProfileA, Level: 3}}
	if err := e.AddSubchannel(sc); err == nil {
		t.Fatalf("expected capacity error, got nil")
	}
}

func TestSubchannelIDUniqueness(t *testing.T) {
	e := NewEnsemble(0x4001, 0xE1, ModeI)
	sc1 := Subchannel{UID: "sub1", ID: 5, BitrateKbps: 48, StartCU: 0, Protection: Protection{Profile: ProfileA, Level: 3}}
	sc2 := Subchannel{UID: "sub2", ID: 5, BitrateKbps: 48, StartCU: 100, Protection: Protection{Profile: ProfileA, Level: 3}}
	if err := e.AddSubchannel(sc1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.AddSubchannel(sc2); err == nil {
		t.Fatalf("expected duplicate-id error, got nil")
	}
}

func TestServicePrimaryComponentUniqueness(t *testing.T) {
	e := NewEnsemble(0x4001, 0xE1, ModeI)
	sc := Subchannel{UID: "sub1", ID: 0, BitrateKbps: 48, StartCU: 0, Protection: Protection{Profile: ProfileA, Level: 3}}
	if err := e.AddSubchannel(sc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc := Service{UID: "svc1", ID: 0x4001, IDBits: ServiceID16}
	if err := e.AddService(svc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c1 := Component{UID: "c1", ServiceUID: "svc1", SubchannelUID: "sub1", Primary: true}
	if err := e.AddComponent(c1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c2 := Component{UID: "c2", ServiceUID: "svc1", SubchannelUID: "sub1", Primary: true}
	if err := e.AddComponent(c2); err == nil {
		t.Fatalf("expected dual-primary error, got nil")
	}
}

func TestSnapshotStableOrderAndIsolation(t *testing.T) {
	e := NewEnsemble(0x4001, 0xE1, ModeI)
	svc1 := Service{UID: "svc1", ID: 1, IDBits: ServiceID16}
	svc2 := Service{UID: "svc2", ID: 2, IDBits: ServiceID16}
	if err := e.AddService(svc1); err != nil {
		t.Fatal(err)
	}
	if err := e.AddService(svc2); err != nil {
		t.Fatal(err)
	}
	snap := e.Snapshot()
	if len(snap.Services) != 2 || snap.Services[0].UID != "svc1" || snap.Services[1].UID != "svc2" {
		t.Fatalf("unexpected service order: %+v", snap.Services)
	}

	e.SetLabel(Label{Text: "Changed"})
	if snap.LongLabel.Text == "Changed" {
		t.Fatalf("snapshot mutated after being taken")
	}
	if snap.Generation == e.Generation() {
		t.Fatalf("generation counter did not advance")
	}
}

func TestGenerationBumpsOnMutation(t *testing.T) {
	e := NewEnsemble(0x4001, 0xE1, ModeI)
	g0 := e.Generation()
	sc := Subchannel{UID: "sub1", ID: 0, BitrateKbps: 48, StartCU: 0, Protection: Protection{Profile: ProfileA, Level: 3}}
	if err := e.AddSubchannel(sc); err != nil {
		t.Fatal(err)
	}
	if e.Generation() == g0 {
		t.Fatalf("generation did not bump after AddSubchannel")
	}
}
