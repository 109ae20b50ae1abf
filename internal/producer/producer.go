// Package producer drives the frame clock: one goroutine that reads
// subchannel input, snapshots the ensemble, assembles an ETI frame and
// (optionally) an EDI AF/PFT representation of it, and fans both out
// to the configured sinks. Modelled on the teacher's worker-loop
// pattern (cmd/dmr-nexus bridge workers), generalised from a packet
// relay loop into a fixed-cadence frame clock. Per-frame fan-out uses a
// sync.WaitGroup so one sink's failure never cancels the others;
// errgroup is used only to close the sinks at shutdown.
package producer

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/magicbadger/dabmux/internal/audit"
	"github.com/magicbadger/dabmux/internal/edi"
	"github.com/magicbadger/dabmux/internal/eti"
	"github.com/magicbadger/dabmux/internal/fic"
	"github.com/magicbadger/dabmux/internal/fig"
	"github.com/magicbadger/dabmux/internal/model"
	"github.com/magicbadger/dabmux/internal/obslog"
	"github.com/magicbadger/dabmux/internal/obsmetrics"
	"github.com/magicbadger/dabmux/internal/transport"
)

// cifPeriod is the fixed duration of one Common Interleaved Frame,
// spec §4/§5's 24 ms multiplex clock tick.
const cifPeriod = 24 * time.Millisecond

// EDIConfig controls whether and how the producer also emits an EDI
// representation of every ETI frame (spec §6 ensemble.edi_output).
type EDIConfig struct {
	Enabled      bool
	FECLevel     int
	FragmentSize int
	EnableTIST   bool
	SourceID     string
}

// Config assembles everything the producer needs to run: the ensemble
// it reads, the FIG encoders driving the FIC carousel, one input
// source per subchannel, and the sinks receiving framed output.
type Config struct {
	Ensemble       *model.Ensemble
	CarouselFIGs   []fig.Encoder
	InputSources   map[string]model.InputSource // keyed by Subchannel.UID
	ETISinks       []transport.Sink
	EDI            EDIConfig
	EDISinks       []transport.Sink
	Logger         *obslog.Logger
	Metrics        *obsmetrics.Collector
	Ledger         *audit.Ledger
	EnableETITIST  bool
}

// Producer owns the frame clock and all per-run mutable state (frame
// counter, EDI sequence numbers, last-seen fingerprint): nothing here
// is shared outside the single clock goroutine, so none of it needs
// locking (spec §5: "the producer is the sole writer of frame,
// sequence, and PFT state").
type Producer struct {
	cfg       Config
	carousel  *fic.Carousel
	assembler *eti.Assembler

	ediSeq     uint16
	pftPseq    uint16
	lastFP     uint16
	haveLastFP bool
}

// New builds a Producer from cfg.
func New(cfg Config) *Producer {
	return &Producer{
		cfg:       cfg,
		carousel:  fic.NewCarousel(cfg.CarouselFIGs...),
		assembler: eti.NewAssembler(cfg.Ensemble.Snapshot().Mode, cfg.EnableETITIST),
	}
}

// Run drives the frame clock until ctx is cancelled, producing one ETI
// frame (and, if enabled, one EDI AF packet plus its PFT fragments)
// every CIFsPerFrame()*24ms, the wall-clock cadence of one multiplex
// "frame" in the configured transmission mode (spec §5).
func (p *Producer) Run(ctx context.Context) error {
	snap0 := p.cfg.Ensemble.Snapshot()
	period := cifPeriod * time.Duration(snap0.Mode.CIFsPerFrame())
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return p.shutdown()
		case <-ticker.C:
			if err := p.produceOne(ctx); err != nil {
				p.cfg.Logger.Error("producer: frame production failed", obslog.Err(err))
			}
		}
	}
}

// shutdown closes every sink; the in-flight frame (if any) has already
// finished by the time ctx.Done() fires, since produceOne never
// returns early on cancellation mid-assembly (spec §5: "shutdown lets
// the in-flight frame finish before closing sinks").
func (p *Producer) shutdown() error {
	var g errgroup.Group
	for _, s := range p.cfg.ETISinks {
		s := s
		g.Go(s.Close)
	}
	for _, s := range p.cfg.EDISinks {
		s := s
		g.Go(s.Close)
	}
	return g.Wait()
}

func (p *Producer) produceOne(ctx context.Context) error {
	snap := p.cfg.Ensemble.Snapshot()
	deadline := time.Now().Add(cifPeriod * time.Duration(snap.Mode.CIFsPerFrame()))

	fibsPerCIF := snap.Mode.FIBsPerCIF()
	cifsPerFrame := snap.Mode.CIFsPerFrame()
	ficBytes := make([]byte, 0, fibsPerCIF*cifsPerFrame*fic.FIBSize)
	for i := 0; i < cifsPerFrame; i++ {
		ficBytes = append(ficBytes, p.carousel.FillCIF(&snap, fibsPerCIF)...)
	}

	subs, err := p.readSubchannels(ctx, &snap, deadline, cifsPerFrame)
	if err != nil {
		return err
	}

	frame, info := p.assembler.AssembleFrame(ficBytes, subs, tistTicks(time.Now()))

	p.fanOut(ctx, p.cfg.ETISinks, frame, "eti")
	if p.cfg.Metrics != nil {
		p.cfg.Metrics.FramesProduced.Inc()
	}

	if p.cfg.EDI.Enabled {
		p.emitEDI(ctx, &snap, ficBytes, subs, info)
	}

	p.observeFingerprint(&snap)
	return nil
}

// readSubchannels reads one frame's worth of bytes from each
// subchannel's input source, in ascending SCID order (spec §4.4), via
// one primary component per subchannel.
func (p *Producer) readSubchannels(ctx context.Context, snap *model.Snapshot, deadline time.Time, cifsPerFrame int) ([]eti.SubchannelPayload, error) {
	subs := append([]model.Subchannel(nil), snap.Subchannels...)
	sortSubchannelsByID(subs)

	out := make([]eti.SubchannelPayload, 0, len(subs))
	for _, sc := range subs {
		n := sc.PayloadBytes() * cifsPerFrame
		src := p.cfg.InputSources[sc.UID]
		var payload []byte
		if src == nil {
			payload = make([]byte, n)
		} else {
			b, err := src.ReadSlice(ctx, n, deadline)
			if err != nil {
				if p.cfg.Metrics != nil {
					p.cfg.Metrics.InputUnderruns.WithLabelValues(sc.UID).Inc()
				}
				payload = make([]byte, n)
			} else {
				payload = b
			}
		}
		out = append(out, eti.SubchannelPayload{
			SCID:    byte(sc.ID),
			SAD:     sc.StartCU,
			TPL:     sc.Protection.TPL(),
			STL:     sc.StreamLengthWords() * cifsPerFrame,
			Payload: payload,
		})
	}
	return out, nil
}

func sortSubchannelsByID(subs []model.Subchannel) {
	for i := 1; i < len(subs); i++ {
		for j := i; j > 0 && subs[j].ID < subs[j-1].ID; j-- {
			subs[j], subs[j-1] = subs[j-1], subs[j]
		}
	}
}

// fanOut sends frame to every sink concurrently; per-sink failures are
// logged, not propagated, so one stalled sink never blocks the others
// or the next tick (spec §5 sink isolation).
func (p *Producer) fanOut(ctx context.Context, sinks []transport.Sink, frame []byte, sinkLabel string) {
	var wg sync.WaitGroup
	for _, s := range sinks {
		s := s
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Send(ctx, frame); err != nil {
				p.cfg.Logger.Warn("producer: sink send failed", obslog.Err(err))
				if p.cfg.Metrics != nil {
					p.cfg.Metrics.FramesDropped.WithLabelValues(sinkLabel).Inc()
				}
			}
		}()
	}
	wg.Wait()
}

// emitEDI builds the TAG packet for this frame (deti + one estN per
// subchannel + optional tist), wraps it in an AF packet, optionally
// PFT-fragments it, and fans the result out to the EDI sinks (spec
// §4.5, ensemble.edi_output). info carries the EOH CRC and FP that
// AssembleFrame already computed for the ETI frame, so the deti TAG
// item mirrors the exact values carried on the ETI side rather than
// recomputing or guessing them.
func (p *Producer) emitEDI(ctx context.Context, snap *model.Snapshot, ficBytes []byte, subs []eti.SubchannelPayload, info eti.FrameInfo) {
	flags := edi.DETIFlags{FCTValid: true, ATSTPresent: p.cfg.EDI.EnableTIST, FICF: true, MID: snap.Mode.MIDValue(), FP: info.FP}
	tag := edi.DetiTag(flags, info.EOHCRC, ficBytes)
	for _, s := range subs {
		tag = append(tag, edi.EstTag(s.SCID, s.SAD, s.TPL, s.STL, s.Payload)...)
	}
	if p.cfg.EDI.EnableTIST {
		now := time.Now().UTC()
		tag = append(tag, edi.TistTag(true, secondsSince2000(now), 0)...)
	}

	af := edi.BuildAF(p.ediSeq, tag)
	p.ediSeq++

	if p.cfg.EDI.FECLevel > 0 {
		frags, err := edi.BuildFragments(p.pftPseq, af, p.cfg.EDI.FECLevel, p.cfg.EDI.FragmentSize)
		p.pftPseq++
		if err != nil {
			p.cfg.Logger.Warn("producer: PFT fragmentation failed", obslog.Err(err))
			return
		}
		for _, frag := range frags {
			p.fanOut(ctx, p.cfg.EDISinks, frag.Encode(), "edi")
		}
		return
	}
	p.fanOut(ctx, p.cfg.EDISinks, af, "edi")
}

// observeFingerprint checks the FIG 0/7 configuration fingerprint
// against the last value seen and records a transition when it
// changes (spec §7: "every configuration change observable on air is
// durably recorded").
func (p *Producer) observeFingerprint(snap *model.Snapshot) {
	fp := fig.Fingerprint(snap)
	if p.haveLastFP && fp == p.lastFP {
		return
	}
	changed := p.haveLastFP
	p.lastFP = fp
	p.haveLastFP = true
	if p.cfg.Metrics != nil {
		p.cfg.Metrics.ConfigGeneration.Set(float64(snap.Generation))
	}
	if changed && p.cfg.Ledger != nil {
		reason := "configuration changed"
		if err := p.cfg.Ledger.Record(snap.Generation, fp, reason); err != nil {
			p.cfg.Logger.Error("producer: failed to record transition", obslog.Err(err))
		}
	}
}

func secondsSince2000(t time.Time) uint32 {
	epoch2000 := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	return uint32(t.Sub(epoch2000).Seconds())
}

func tistTicks(t time.Time) uint64 {
	return uint64(t.Nanosecond()) * 16384 / 1_000_000_000
}
