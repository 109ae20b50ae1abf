package fig

import (
	"testing"

	"github.com/magicbadger/dabmux/internal/model"
)

func TestConfigInfoFingerprintStableAcrossNoopEmissions(t *testing.T) {
	e := model.NewEnsemble(0xCE15, 0xE1, model.ModeI)
	snap1 := e.Snapshot()
	snap2 := e.Snapshot()

	fp1 := Fingerprint(&snap1)
	fp2 := Fingerprint(&snap2)
	if fp1 != fp2 {
		t.Fatalf("fingerprint changed without mutation: %d != %d", fp1, fp2)
	}
}

func TestConfigInfoFingerprintChangesOnMutation(t *testing.T) {
	e := model.NewEnsemble(0xCE15, 0xE1, model.ModeI)
	before := e.Snapshot()
	fpBefore := Fingerprint(&before)

	e.SetLabel(model.Label{Text: "New Label"})

	after := e.Snapshot()
	fpAfter := Fingerprint(&after)
	if fpBefore == fpAfter {
		t.Fatalf("fingerprint did not change after mutation")
	}
}

func newEnsembleWithDynamicComponent(t *testing.T, text string) *model.Ensemble {
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
	comp := model.Component{UID: "c1", ServiceUID: "svc1", SubchannelUID: "sub1", Primary: true, DynamicLabel: text}
	if err := e.AddComponent(comp); err != nil {
		t.Fatal(err)
	}
	return e
}

func TestDynamicLabelTogglesOnlyOnTextChange(t *testing.T) {
	e := newEnsembleWithDynamicComponent(t, "ABC")
	dl := NewDynamicLabel()

	buf := make([]byte, 64)
	snap := e.Snapshot()
	n, _ := dl.Fill(buf, len(buf), &snap)
	toggle0 := buf[2]&0x80 != 0
	if n == 0 {
		t.Fatalf("expected bytes written on first emission")
	}

	snap = e.Snapshot()
	n, _ = dl.Fill(buf, len(buf), &snap)
	toggle1 := buf[2]&0x80 != 0
	if toggle0 != toggle1 {
		t.Fatalf("toggle flipped without a text change")
	}

	if err := e.SetDynamicLabel("c1", "DEF"); err != nil {
		t.Fatal(err)
	}
	snap = e.Snapshot()
	n, _ = dl.Fill(buf, len(buf), &snap)
	if n == 0 {
		t.Fatalf("expected bytes written after text change")
	}
	toggle2 := buf[2]&0x80 != 0
	if toggle2 == toggle1 {
		t.Fatalf("toggle did not flip after text change")
	}

	if err := e.SetDynamicLabel("c1", "ABC"); err != nil {
		t.Fatal(err)
	}
	snap = e.Snapshot()
	dl.Fill(buf, len(buf), &snap)
	toggle3 := buf[2]&0x80 != 0
	if toggle3 == toggle2 {
		t.Fatalf("toggle did not flip on reverting text")
	}
}

func TestAnnouncementSwitchingPromotesClassWhileActive(t *testing.T) {
	a := NewAnnouncementSwitching()
	e := model.NewEnsemble(0x4001, 0xE1, model.ModeI)
	snap := e.Snapshot()
	a.Observe(&snap)
	if a.Class() != ClassC {
		t.Fatalf("expected dormant class C before any trigger")
	}

	e.TriggerAnnouncement(0, 0x1, "emergency")
	snap = e.Snapshot()
	a.Observe(&snap)
	if a.Class() != ClassA || a.Priority() != PriorityHigh {
		t.Fatalf("expected class A / HIGH priority while announcement active")
	}

	e.StopAnnouncement(0)
	snap = e.Snapshot()
	a.Observe(&snap)
	if a.Class() != ClassC {
		t.Fatalf("expected class C again after stop")
	}
}
