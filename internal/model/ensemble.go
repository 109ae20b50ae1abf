package model

import (
	"sort"
	"sync"
)

// DateTimePolicy selects how the ETI TIST / FIG 0/10 timestamp is
// sourced (spec §3 Ensemble).
type DateTimePolicy int

const (
	DateTimeSystemClock DateTimePolicy = iota
	DateTimeNone
)

// Ensemble is the top-level configuration object: one multiplex, its
// services, subchannels, components, and the carousel/output settings
// that govern how they are framed and shipped. All mutation goes
// through the exported setters so the producer's per-frame read path
// and the remote-control write path never race (spec §5 concurrency
// model).
type Ensemble struct {
	mu sync.RWMutex

	ID              uint16 // EId
	ECC             byte
	Mode            TransmissionMode
	LongLabel       Label
	DateTimePolicy  DateTimePolicy
	LocalTimeOffset int // half-hours, signed

	services     map[string]*Service
	subchannels  map[string]*Subchannel
	components   map[string]*Component
	serviceOrder []string // insertion order, for stable FIG iteration

	activeAnnouncements map[byte]ActiveAnnouncement // clusterID -> active state

	generation uint64 // bumped on every mutating call; FIG 0/7 fingerprint input
}

// ActiveAnnouncement is the live switching state of one announcement
// cluster, set by trigger_announcement / stop_announcement (spec §6
// remote control, §4.2 FIG 0/19).
type ActiveAnnouncement struct {
	ClusterID     byte
	Types         uint16 // ASw bitmask of active announcement types
	SubchannelUID string // target subchannel carrying the announcement audio
}

// NewEnsemble constructs an empty ensemble in the given transmission
// mode.
func NewEnsemble(id uint16, ecc byte, mode TransmissionMode) *Ensemble {
	return &Ensemble{
		ID:                  id,
		ECC:                 ecc,
		Mode:                mode,
		services:            make(map[string]*Service),
		subchannels:         make(map[string]*Subchannel),
		components:          make(map[string]*Component),
		activeAnnouncements: make(map[byte]ActiveAnnouncement),
	}
}

// TriggerAnnouncement activates announcement types on a cluster,
// directing them to the given subchannel, and bumps the configuration
// generation. FIG 0/19 promotes to class A/HIGH on the next frame
// because the snapshot now lists the cluster as active.
func (e *Ensemble) TriggerAnnouncement(clusterID byte, types uint16, subchannelUID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.activeAnnouncements[clusterID] = ActiveAnnouncement{
		ClusterID:     clusterID,
		Types:         types,
		SubchannelUID: subchannelUID,
	}
	e.bump()
}

// StopAnnouncement clears a cluster's active announcement state.
func (e *Ensemble) StopAnnouncement(clusterID byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.activeAnnouncements, clusterID)
	e.bump()
}

// Generation returns the current configuration-change counter, used as
// the FIG 0/7 fingerprint's monotonic input.
func (e *Ensemble) Generation() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.generation
}

func (e *Ensemble) bump() {
	e.generation++
}

// AddSubchannel inserts or replaces a subchannel, then revalidates the
// whole ensemble's CU allocation. On validation failure the previous
// state is left untouched.
func (e *Ensemble) AddSubchannel(sc Subchannel) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	prev, existed := e.subchannels[sc.UID]
	e.subchannels[sc.UID] = &sc
	if err := e.validateLocked(); err != nil {
		if existed {
			e.subchannels[sc.UID] = prev
		} else {
			delete(e.subchannels, sc.UID)
		}
		return err
	}
	e.bump()
	return nil
}

// AddService inserts or replaces a service.
func (e *Ensemble) AddService(svc Service) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := svc.Validate(); err != nil {
		return err
	}
	if _, existed := e.services[svc.UID]; !existed {
		e.serviceOrder = append(e.serviceOrder, svc.UID)
	}
	e.services[svc.UID] = &svc
	e.bump()
	return nil
}

// AddComponent inserts or replaces a component, then revalidates the
// "at most one primary component per service" invariant.
func (e *Ensemble) AddComponent(c Component) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	prev, existed := e.components[c.UID]
	e.components[c.UID] = &c
	if err := e.validateLocked(); err != nil {
		if existed {
			e.components[c.UID] = prev
		} else {
			delete(e.components, c.UID)
		}
		return err
	}
	e.bump()
	return nil
}

// SetLabel updates the ensemble's long label under the writer lock
// (remote-control mutation, spec §5).
func (e *Ensemble) SetLabel(l Label) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.LongLabel = l
	e.bump()
}

// SetDynamicLabel updates one component's dynamic-label text.
func (e *Ensemble) SetDynamicLabel(componentUID, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.components[componentUID]
	if !ok {
		return NewConfigError("component", "unknown component %q", componentUID)
	}
	c.DynamicLabel = text
	e.bump()
	return nil
}

// Snapshot is a read-only, race-free view of the ensemble taken under
// the reader lock, safe to hand to a FIG encoder or the audit ledger
// without holding any lock for the duration of its use.
type Snapshot struct {
	ID              uint16
	ECC             byte
	Mode            TransmissionMode
	LongLabel       Label
	DateTimePolicy  DateTimePolicy
	LocalTimeOffset int
	Generation      uint64
	Services            []Service
	Subchannels         []Subchannel
	Components          []Component
	ActiveAnnouncements []ActiveAnnouncement
}

// Snapshot copies out the current ensemble state under the reader
// lock. Services are returned in stable insertion order so iterative
// FIG encoders (class C, "next service" cursors) see a consistent
// sequence across calls even as the map grows.
func (e *Ensemble) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := Snapshot{
		ID:              e.ID,
		ECC:             e.ECC,
		Mode:            e.Mode,
		LongLabel:       e.LongLabel,
		DateTimePolicy:  e.DateTimePolicy,
		LocalTimeOffset: e.LocalTimeOffset,
		Generation:      e.generation,
	}
	for _, uid := range e.serviceOrder {
		if svc, ok := e.services[uid]; ok {
			s.Services = append(s.Services, *svc)
		}
	}
	subUIDs := make([]string, 0, len(e.subchannels))
	for uid := range e.subchannels {
		subUIDs = append(subUIDs, uid)
	}
	sort.Strings(subUIDs)
	for _, uid := range subUIDs {
		s.Subchannels = append(s.Subchannels, *e.subchannels[uid])
	}
	compUIDs := make([]string, 0, len(e.components))
	for uid := range e.components {
		compUIDs = append(compUIDs, uid)
	}
	sort.Strings(compUIDs)
	for _, uid := range compUIDs {
		s.Components = append(s.Components, *e.components[uid])
	}
	clusterIDs := make([]byte, 0, len(e.activeAnnouncements))
	for id := range e.activeAnnouncements {
		clusterIDs = append(clusterIDs, id)
	}
	sort.Slice(clusterIDs, func(i, j int) bool { return clusterIDs[i] < clusterIDs[j] })
	for _, id := range clusterIDs {
		s.ActiveAnnouncements = append(s.ActiveAnnouncements, e.activeAnnouncements[id])
	}
	return s
}

// Validate runs the full set of cross-entity invariants spec §3/§8
// places on the ensemble.
func (e *Ensemble) Validate() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.validateLocked()
}

func (e *Ensemble) validateLocked() error {
	seenSubIDs := make(map[int]string)
	type span struct {
		start, end int
		uid        string
	}
	var spans []span
	for uid, sc := range e.subchannels {
		if err := sc.Validate(); err != nil {
			return err
		}
		if other, dup := seenSubIDs[sc.ID]; dup && other != uid {
			return NewConfigError("subchannel.id", "id %d used by both %q and %q", sc.ID, other, uid)
		}
		seenSubIDs[sc.ID] = uid
		spans = append(spans, span{sc.StartCU, sc.EndCU(), uid})
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	for i := 1; i < len(spans); i++ {
		if spans[i].start < spans[i-1].end {
			return NewConfigError("subchannel.start_address",
				"subchannel %q [%d,%d) overlaps %q [%d,%d)",
				spans[i].uid, spans[i].start, spans[i].end,
				spans[i-1].uid, spans[i-1].start, spans[i-1].end)
		}
	}
	if len(spans) > 0 {
		last := spans[len(spans)-1]
		if last.end > ModeCapacityCU {
			return NewConfigError("subchannel.start_address",
				"ensemble capacity exceeded: %q ends at CU %d > %d", last.uid, last.end, ModeCapacityCU)
		}
	}

	seenServiceIDs := make(map[uint32]string)
	for uid, svc := range e.services {
		if err := svc.Validate(); err != nil {
			return err
		}
		if other, dup := seenServiceIDs[svc.ID]; dup && other != uid {
			return NewConfigError("service.id", "id %d used by both %q and %q", svc.ID, other, uid)
		}
		seenServiceIDs[svc.ID] = uid
	}

	primaryOf := make(map[string]string)
	for uid, c := range e.components {
		if err := c.Validate(); err != nil {
			return err
		}
		if _, ok := e.services[c.ServiceUID]; !ok {
			return NewConfigError("component.service", "component %q references unknown service %q", uid, c.ServiceUID)
		}
		if _, ok := e.subchannels[c.SubchannelUID]; !ok {
			return NewConfigError("component.subchannel", "component %q references unknown subchannel %q", uid, c.SubchannelUID)
		}
		if c.Primary {
			if other, dup := primaryOf[c.ServiceUID]; dup {
				return NewConfigError("component.primary", "service %q has two primary components: %q and %q", c.ServiceUID, other, uid)
			}
			primaryOf[c.ServiceUID] = uid
		}
	}
	return nil
}
