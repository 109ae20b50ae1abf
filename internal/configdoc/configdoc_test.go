package configdoc

import (
	"testing"

	"github.com/magicbadger/dabmux/internal/model"
)

func sampleDoc() *Document {
	return &Document{
		Ensemble: EnsembleDoc{
			ID:               0xCE15,
			ECC:              0xE1,
			TransmissionMode: "I",
			Label:            LabelDoc{Text: "Test Multiplex"},
		},
		Subchannels: []SubchannelDoc{
			{UID: "sub1", ID: 0, Type: "dabplus", BitrateKbps: 48, Protection: "EEP_3A", InputURI: "file:///dev/null"},
		},
		Services: []ServiceDoc{
			{UID: "svc1", ID: 0x4001, Label: LabelDoc{Text: "Test Service"}, PTy: 10},
		},
		Components: []ComponentDoc{
			{UID: "c1", ServiceID: "svc1", SubchannelID: "sub1"},
		},
	}
}

func TestBuildEnsembleFromValidDocument(t *testing.T) {
	e, err := BuildEnsemble(sampleDoc())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := e.Snapshot()
	if len(snap.Subchannels) != 1 || len(snap.Services) != 1 || len(snap.Components) != 1 {
		t.Fatalf("unexpected snapshot shape: %+v", snap)
	}
	if snap.ID != 0xCE15 || snap.Mode != model.ModeI {
		t.Fatalf("ensemble fields not applied: %+v", snap)
	}
}

func TestBuildEnsembleRejectsUnknownSubchannelReference(t *testing.T) {
	doc := sampleDoc()
	doc.Components[0].SubchannelID = "missing"
	if _, err := BuildEnsemble(doc); err == nil {
		t.Fatal("expected error for dangling subchannel reference")
	}
}

func TestBuildEnsembleRejectsUnknownServiceReference(t *testing.T) {
	doc := sampleDoc()
	doc.Components[0].ServiceID = "missing"
	if _, err := BuildEnsemble(doc); err == nil {
		t.Fatal("expected error for dangling service reference")
	}
}

func TestBuildEnsembleRejectsBadProtection(t *testing.T) {
	doc := sampleDoc()
	doc.Subchannels[0].Protection = "not-a-protection"
	if _, err := BuildEnsemble(doc); err == nil {
		t.Fatal("expected error for malformed protection string")
	}
}

func TestEncodeAnnouncementTypesCombinesBits(t *testing.T) {
	bits := encodeAnnouncementTypes([]string{"ALARM", "TRAFFIC"})
	if bits != 0x3 {
		t.Fatalf("expected 0x3, got 0x%x", bits)
	}
}

func TestBuildEnsemblePropagatesAnnouncementSupport(t *testing.T) {
	doc := sampleDoc()
	doc.Services[0].Announcements = []AnnouncementDoc{{ClusterID: 1, Types: []string{"ALARM"}}}
	e, err := BuildEnsemble(doc)
	if err != nil {
		t.Fatal(err)
	}
	snap := e.Snapshot()
	if len(snap.Services[0].Announcements) != 1 || snap.Services[0].Announcements[0].SupportFlags != 0x1 {
		t.Fatalf("announcement support not propagated: %+v", snap.Services[0])
	}
}
