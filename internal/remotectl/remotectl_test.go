package remotectl

import (
	"testing"

	"github.com/magicbadger/dabmux/internal/model"
	"github.com/magicbadger/dabmux/internal/obslog"
)

func newTestHub(t *testing.T) (*Hub, *model.Ensemble) {
	t.Helper()
	e := model.NewEnsemble(0xCE15, 0xE1, model.ModeI)
	sc := model.Subchannel{UID: "sub1", ID: 0, BitrateKbps: 48, StartCU: 0, Protection: model.Protection{Profile: model.ProfileA, Level: 3}}
	if err := e.AddSubchannel(sc); err != nil {
		t.Fatal(err)
	}
	svc := model.Service{UID: "svc1", ID: 1, IDBits: model.ServiceID16}
	if err := e.AddService(svc); err != nil {
		t.Fatal(err)
	}
	comp := model.Component{UID: "c1", ServiceUID: "svc1", SubchannelUID: "sub1", Primary: true}
	if err := e.AddComponent(comp); err != nil {
		t.Fatal(err)
	}
	log := obslog.New(obslog.Config{Level: "error"})
	return NewHub(e, log), e
}

func TestApplySetDynamicLabel(t *testing.T) {
	hub, e := newTestHub(t)
	if err := hub.Apply(Mutation{Type: EventSetDynamicLabel, Component: "c1", Text: "NOW PLAYING"}); err != nil {
		t.Fatal(err)
	}
	snap := e.Snapshot()
	if snap.Components[0].DynamicLabel != "NOW PLAYING" {
		t.Fatalf("dynamic label not applied: %+v", snap.Components[0])
	}
}

func TestApplyTriggerAndStopAnnouncement(t *testing.T) {
	hub, e := newTestHub(t)
	if err := hub.Apply(Mutation{Type: EventTriggerAnnouncement, ClusterID: 0, AnnType: 0x1, Subchannel: "sub1"}); err != nil {
		t.Fatal(err)
	}
	snap := e.Snapshot()
	if len(snap.ActiveAnnouncements) != 1 {
		t.Fatalf("expected 1 active announcement, got %d", len(snap.ActiveAnnouncements))
	}

	if err := hub.Apply(Mutation{Type: EventStopAnnouncement, ClusterID: 0}); err != nil {
		t.Fatal(err)
	}
	snap = e.Snapshot()
	if len(snap.ActiveAnnouncements) != 0 {
		t.Fatalf("expected 0 active announcements after stop, got %d", len(snap.ActiveAnnouncements))
	}
}

func TestApplyUnknownTypeRejected(t *testing.T) {
	hub, _ := newTestHub(t)
	if err := hub.Apply(Mutation{Type: "bogus"}); err == nil {
		t.Fatalf("expected error for unknown mutation type")
	}
}

func TestApplySetLogLevelInvokesCallback(t *testing.T) {
	hub, _ := newTestHub(t)
	var got string
	hub.OnLogLevel(func(level string) { got = level })
	if err := hub.Apply(Mutation{Type: EventSetLogLevel, Level: "debug"}); err != nil {
		t.Fatal(err)
	}
	if got != "debug" {
		t.Fatalf("callback not invoked with expected level, got %q", got)
	}
}
