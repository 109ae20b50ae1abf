// Command dabmux runs the frame-production engine: it loads an
// ensemble configuration, starts the FIC/ETI/EDI producer, and serves
// the producer until a shutdown signal arrives (spec §1-§2, §6).
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magicbadger/dabmux/internal/audit"
	"github.com/magicbadger/dabmux/internal/configdoc"
	"github.com/magicbadger/dabmux/internal/fig"
	"github.com/magicbadger/dabmux/internal/model"
	"github.com/magicbadger/dabmux/internal/obslog"
	"github.com/magicbadger/dabmux/internal/obsmetrics"
	"github.com/magicbadger/dabmux/internal/producer"
	"github.com/magicbadger/dabmux/internal/remotectl"
	"github.com/magicbadger/dabmux/internal/transport"
)

var (
	version   = "dev"
	gitCommit = "unknown"
	buildTime = "unknown"
)

// sinkGovernPeriod/sinkGovernBurst bound every file/network sink to
// roughly the producer's own frame cadence (spec §5: sends are
// best-effort and must never stall the producer), absorbing a short
// burst (e.g. a reconnect catch-up) before dropping.
const (
	sinkGovernPeriod = 24 * time.Millisecond
	sinkGovernBurst  = 4
)

func main() {
	configFile := flag.String("config", "dabmux.yaml", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	validate := flag.Bool("validate", false, "Validate configuration and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("dabmux %s\n", version)
		fmt.Printf("Git Commit: %s\n", gitCommit)
		fmt.Printf("Built: %s\n", buildTime)
		os.Exit(0)
	}

	log := obslog.New(obslog.Config{Level: "info"})
	log.Info("starting dabmux",
		obslog.String("version", version),
		obslog.String("commit", gitCommit),
		obslog.String("build_time", buildTime))

	doc, err := configdoc.Load(*configFile)
	if err != nil {
		log.Error("failed to load configuration", obslog.Err(err))
		os.Exit(1)
	}

	ensemble, err := configdoc.BuildEnsemble(doc)
	if err != nil {
		log.Error("invalid configuration", obslog.Err(err))
		os.Exit(1)
	}

	if *validate {
		log.Info("configuration is valid")
		os.Exit(0)
	}

	log = obslog.New(obslog.Config{
		Level:      doc.Logging.Level,
		FilePath:   doc.Logging.File,
		MaxSizeMB:  doc.Logging.MaxSizeMB,
		MaxBackups: doc.Logging.MaxBackups,
		MaxAgeDays: doc.Logging.MaxAge,
	})
	log.Info("configuration loaded", obslog.String("config_file", *configFile))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	registry := prometheus.NewRegistry()
	collector := obsmetrics.NewCollector(registry)

	if doc.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		addr := fmt.Sprintf(":%d", doc.Metrics.Port)
		srv := &http.Server{Addr: addr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("metrics server error", obslog.Err(err))
			}
		}()
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		log.Info("metrics server started", obslog.Int("port", doc.Metrics.Port))
	}

	ledger, err := audit.Open(audit.Config{Path: "data/dabmux-audit.db"}, log.WithComponent("audit"))
	if err != nil {
		log.Error("failed to open audit ledger", obslog.Err(err))
		os.Exit(1)
	}
	defer ledger.Close()

	inputs := buildInputSources(ensemble.Snapshot(), log.WithComponent("input"))
	defer closeInputSources(inputs)

	etiSinks, err := buildETISinks(doc)
	if err != nil {
		log.Error("failed to start ETI sinks", obslog.Err(err))
		os.Exit(1)
	}

	ediCfg, ediSinks, err := buildEDI(doc)
	if err != nil {
		log.Error("failed to start EDI sinks", obslog.Err(err))
		os.Exit(1)
	}

	if doc.Ensemble.RemoteControl.Enabled {
		hub := remotectl.NewHub(ensemble, log.WithComponent("remotectl"))
		hub.OnLogLevel(func(level string) {
			log.Info("remote control: log level change requested", obslog.String("level", level))
		})
		mux := http.NewServeMux()
		mux.Handle("/remotectl", hub.Handler())
		srv := &http.Server{Addr: doc.Ensemble.RemoteControl.Listen, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("remote-control server error", obslog.Err(err))
			}
		}()
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		log.Info("remote-control listener started", obslog.String("listen", doc.Ensemble.RemoteControl.Listen))
	}

	p := producer.New(producer.Config{
		Ensemble:      ensemble,
		CarouselFIGs:  fig.DefaultEncoders(doc.Ensemble.ConditionalAccess.Enabled),
		InputSources:  inputs,
		ETISinks:      etiSinks,
		EDI:           ediCfg,
		EDISinks:      ediSinks,
		Logger:        log.WithComponent("producer"),
		Metrics:       collector,
		Ledger:        ledger,
		EnableETITIST: doc.Ensemble.EDIOutput.EnableTIST,
	})

	go func() {
		if err := p.Run(ctx); err != nil {
			log.Error("producer stopped with error", obslog.Err(err))
		}
	}()

	log.Info("dabmux running",
		obslog.Uint64("ensemble_id", uint64(ensemble.ID)),
		obslog.String("mode", ensemble.Mode.String()))

	sig := <-sigCh
	log.Info("received shutdown signal", obslog.String("signal", sig.String()))
	cancel()

	// Give the in-flight frame and sink shutdown a bounded window
	// (spec §5 cancellation: "emit the current frame in flight, flush
	// sinks, close TCP connections, and exit").
	time.Sleep(200 * time.Millisecond)
	log.Info("dabmux stopped")
}

func buildInputSources(snap model.Snapshot, log *obslog.Logger) map[string]model.InputSource {
	out := make(map[string]model.InputSource, len(snap.Subchannels))
	for _, sc := range snap.Subchannels {
		if sc.InputURI == "" {
			out[sc.UID] = model.NewZeroFillInputSource()
			continue
		}
		src, err := model.NewFileInputSource(sc.InputURI)
		if err != nil {
			log.Warn("input source unavailable, substituting zero-fill",
				obslog.String("subchannel", sc.UID), obslog.String("uri", sc.InputURI), obslog.Err(err))
			out[sc.UID] = model.NewZeroFillInputSource()
			continue
		}
		out[sc.UID] = src
	}
	return out
}

func closeInputSources(inputs map[string]model.InputSource) {
	for _, src := range inputs {
		_ = src.Close()
	}
}

func buildETISinks(doc *configdoc.Document) ([]transport.Sink, error) {
	out := doc.Ensemble.ETIOutput
	if !out.Enabled {
		return nil, nil
	}
	sink, err := transport.NewFileSink(out.Path, parseETIFraming(out.Framing))
	if err != nil {
		return nil, fmt.Errorf("eti: open file sink %q: %w", out.Path, err)
	}
	return []transport.Sink{transport.NewGoverned(sink, sinkGovernPeriod, sinkGovernBurst)}, nil
}

func parseETIFraming(s string) transport.FileFraming {
	switch s {
	case "framed":
		return transport.FramingFramed
	case "streamed":
		return transport.FramingStreamed
	default:
		return transport.FramingRaw
	}
}

func buildEDI(doc *configdoc.Document) (producer.EDIConfig, []transport.Sink, error) {
	out := producer.EDIConfig{}
	edi := doc.Ensemble.EDIOutput
	if edi.Destination == "" {
		return out, nil, nil
	}

	out.Enabled = true
	out.FECLevel = edi.PFTFEC
	out.FragmentSize = edi.PFTFragmentSize
	out.EnableTIST = edi.EnableTIST
	out.SourceID = edi.SourceID
	if !edi.EnablePFT {
		out.FECLevel = 0
	}

	var sink transport.Sink
	switch edi.Protocol {
	case "tcp":
		if edi.TCPMode == "server" {
			s, err := transport.NewTCPServerSink(edi.Destination)
			if err != nil {
				return out, nil, fmt.Errorf("edi: start tcp server: %w", err)
			}
			sink = s
		} else {
			sink = transport.NewTCPClientSink(edi.Destination)
		}
	default:
		addr, err := net.ResolveUDPAddr("udp4", edi.Destination)
		if err != nil {
			return out, nil, fmt.Errorf("edi: resolve udp destination: %w", err)
		}
		s, err := transport.NewUDPSink(addr, 8)
		if err != nil {
			return out, nil, fmt.Errorf("edi: open udp sink: %w", err)
		}
		sink = s
	}

	sinks := []transport.Sink{transport.NewGoverned(sink, sinkGovernPeriod, sinkGovernBurst)}
	return out, sinks, nil
}
