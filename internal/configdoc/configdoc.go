// Package configdoc loads the ensemble configuration document (spec
// §6) with spf13/viper and converts it into a validated
// *model.Ensemble, following the teacher's viper + mapstructure
// config-loading pattern.
package configdoc

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/magicbadger/dabmux/internal/model"
)

// Document is the configuration-document shape described in spec §6.
type Document struct {
	Ensemble     EnsembleDoc      `mapstructure:"ensemble"`
	Subchannels  []SubchannelDoc  `mapstructure:"subchannels"`
	Services     []ServiceDoc     `mapstructure:"services"`
	Components   []ComponentDoc   `mapstructure:"components"`
	Logging      LoggingDoc       `mapstructure:"logging"`
	Metrics      MetricsDoc       `mapstructure:"metrics"`
}

type LabelDoc struct {
	Text      string `mapstructure:"text"`
	ShortMask uint16 `mapstructure:"short_mask"`
}

type DateTimeDoc struct {
	Enabled   bool `mapstructure:"enabled"`
	UTCOffset int  `mapstructure:"utc_offset"`
}

type ETIOutputDoc struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Framing string `mapstructure:"framing"` // raw|framed|streamed
}

type EDIOutputDoc struct {
	Protocol         string `mapstructure:"protocol"` // udp|tcp
	Destination      string `mapstructure:"destination"`
	TCPMode          string `mapstructure:"tcp_mode"` // client|server
	EnablePFT        bool   `mapstructure:"enable_pft"`
	PFTFEC           int    `mapstructure:"pft_fec"`
	PFTFragmentSize  int    `mapstructure:"pft_fragment_size"`
	EnableTIST       bool   `mapstructure:"enable_tist"`
	SourceID         string `mapstructure:"source_id"`
}

type RemoteControlDoc struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
}

type ConditionalAccessDoc struct {
	Enabled bool     `mapstructure:"enabled"`
	Systems []uint16 `mapstructure:"systems"`
}

type EnsembleDoc struct {
	ID                uint16               `mapstructure:"id"`
	ECC               byte                 `mapstructure:"ecc"`
	TransmissionMode  string               `mapstructure:"transmission_mode"`
	Label             LabelDoc             `mapstructure:"label"`
	DateTime          DateTimeDoc          `mapstructure:"datetime"`
	RemoteControl     RemoteControlDoc     `mapstructure:"remote_control"`
	ETIOutput         ETIOutputDoc         `mapstructure:"eti_output"`
	EDIOutput         EDIOutputDoc         `mapstructure:"edi_output"`
	ConditionalAccess ConditionalAccessDoc `mapstructure:"conditional_access"`
}

type SubchannelDoc struct {
	UID        string `mapstructure:"uid"`
	ID         int    `mapstructure:"id"`
	Type       string `mapstructure:"type"` // dabplus|audio|packet|data
	BitrateKbps int   `mapstructure:"bitrate"`
	StartCU    int    `mapstructure:"start_cu"`
	Protection string `mapstructure:"protection"`
	InputURI   string `mapstructure:"input_uri"`
	FECScheme  string `mapstructure:"fec_scheme"` // RS|none
}

type AnnouncementDoc struct {
	ClusterID byte     `mapstructure:"cluster_id"`
	Types     []string `mapstructure:"types"`
}

type ServiceDoc struct {
	UID           string            `mapstructure:"uid"`
	ID            uint32            `mapstructure:"id"`
	Label         LabelDoc          `mapstructure:"label"`
	PTy           int               `mapstructure:"pty"`
	Language      int               `mapstructure:"language"`
	Announcements []AnnouncementDoc `mapstructure:"announcements"`
	CASystem      uint16            `mapstructure:"ca_system"`
}

type UserAppDoc struct {
	Type byte   `mapstructure:"type"`
	Data []byte `mapstructure:"data"`
}

type PacketDoc struct {
	Address byte         `mapstructure:"address"`
	UATypes []UserAppDoc `mapstructure:"ua_types"`
}

type DynamicLabelDoc struct {
	Text    string `mapstructure:"text"`
	Charset int    `mapstructure:"charset"`
}

type ComponentDoc struct {
	UID           string           `mapstructure:"uid"`
	ServiceID     string           `mapstructure:"service_id"`
	SubchannelID  string           `mapstructure:"subchannel_id"`
	IsPacketMode  bool             `mapstructure:"is_packet_mode"`
	Packet        PacketDoc        `mapstructure:"packet"`
	DynamicLabel  DynamicLabelDoc  `mapstructure:"dynamic_label"`
}

type LoggingDoc struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

type MetricsDoc struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// Load reads configFile (or the default search path) with viper,
// applying defaults, then unmarshals into a Document.
func Load(configFile string) (*Document, error) {
	setDefaults()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("dabmux")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath("/etc/dabmux")
	}

	viper.SetEnvPrefix("DABMUX")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configdoc: read config file: %w", err)
		}
	}

	var doc Document
	if err := viper.Unmarshal(&doc); err != nil {
		return nil, fmt.Errorf("configdoc: unmarshal: %w", err)
	}
	return &doc, nil
}

func setDefaults() {
	viper.SetDefault("ensemble.transmission_mode", "I")
	viper.SetDefault("ensemble.eti_output.framing", "raw")
	viper.SetDefault("ensemble.edi_output.protocol", "udp")
	viper.SetDefault("ensemble.edi_output.pft_fragment_size", 1400)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.max_size", 100)
	viper.SetDefault("logging.max_backups", 5)
	viper.SetDefault("logging.max_age", 28)
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.port", 9090)
}

// BuildEnsemble validates doc exhaustively and constructs the
// model.Ensemble it describes (spec §9: "validate exhaustively at load
// time so the core never observes partial values").
func BuildEnsemble(doc *Document) (*model.Ensemble, error) {
	mode, err := model.ParseTransmissionMode(doc.Ensemble.TransmissionMode)
	if err != nil {
		return nil, err
	}
	e := model.NewEnsemble(doc.Ensemble.ID, doc.Ensemble.ECC, mode)
	e.SetLabel(model.Label{Text: doc.Ensemble.Label.Text, ShortMask: doc.Ensemble.Label.ShortMask})

	subByUID := make(map[string]SubchannelDoc)
	for _, s := range doc.Subchannels {
		subByUID[s.UID] = s
		protection, err := model.ParseProtection(s.Protection)
		if err != nil {
			return nil, fmt.Errorf("configdoc: subchannel %q: %w", s.UID, err)
		}
		sc := model.Subchannel{
			UID:         s.UID,
			ID:          s.ID,
			Type:        parseSubchannelType(s.Type),
			BitrateKbps: s.BitrateKbps,
			StartCU:     s.StartCU,
			Protection:  protection,
			InputURI:    s.InputURI,
			FEC:         parseFEC(s.FECScheme),
		}
		if err := e.AddSubchannel(sc); err != nil {
			return nil, err
		}
	}

	svcByUID := make(map[string]ServiceDoc)
	for _, s := range doc.Services {
		svcByUID[s.UID] = s
		idBits := model.ServiceID16
		if s.ID > 0xFFFF {
			idBits = model.ServiceID32
		}
		var anns []model.Announcement
		for _, a := range s.Announcements {
			anns = append(anns, model.Announcement{SupportFlags: encodeAnnouncementTypes(a.Types), ClusterID: a.ClusterID})
		}
		svc := model.Service{
			UID:           s.UID,
			ID:            s.ID,
			IDBits:        idBits,
			Label:         model.Label{Text: s.Label.Text, ShortMask: s.Label.ShortMask},
			ProgrammeType: s.PTy,
			Language:      s.Language,
			CAID:          int(s.CASystem),
			Announcements: anns,
		}
		if err := e.AddService(svc); err != nil {
			return nil, err
		}
	}

	for _, c := range doc.Components {
		if _, ok := subByUID[c.SubchannelID]; !ok {
			return nil, model.NewConfigError("component.subchannel_id", "component %q references unknown subchannel %q", c.UID, c.SubchannelID)
		}
		if _, ok := svcByUID[c.ServiceID]; !ok {
			return nil, model.NewConfigError("component.service_id", "component %q references unknown service %q", c.UID, c.ServiceID)
		}
		compType := model.ComponentAudio
		if c.IsPacketMode {
			compType = model.ComponentDataPacket
		}
		var userApps []model.UserApplication
		for _, ua := range c.Packet.UATypes {
			userApps = append(userApps, model.UserApplication{UAType: uint16(ua.Type), Data: ua.Data})
		}
		comp := model.Component{
			UID:           c.UID,
			ServiceUID:    c.ServiceID,
			SubchannelUID: c.SubchannelID,
			Type:          compType,
			Primary:       true,
			DynamicLabel:  c.DynamicLabel.Text,
			PacketAddress: int(c.Packet.Address),
			UserApps:      userApps,
		}
		if err := e.AddComponent(comp); err != nil {
			return nil, err
		}
	}

	return e, nil
}

func parseSubchannelType(s string) model.SubchannelType {
	switch s {
	case "dabplus":
		return model.SubchannelDABPlusAudio
	case "audio":
		return model.SubchannelDABAudio
	case "packet":
		return model.SubchannelPacket
	default:
		return model.SubchannelData
	}
}

func parseFEC(s string) model.FECScheme {
	if s == "RS" {
		return model.FECRS204188
	}
	return model.FECNone
}

// announcementTypeBits maps the configuration document's named
// announcement types onto the ASw bit positions spec §4.2 assigns FIG
// 0/18/0/19 (bit 0 = ALARM, as used in scenario 4).
var announcementTypeBits = map[string]uint16{
	"ALARM":       1 << 0,
	"TRAFFIC":     1 << 1,
	"TRANSPORT":   1 << 2,
	"WARNING":     1 << 3,
	"NEWS":        1 << 4,
	"WEATHER":     1 << 5,
	"EVENT":       1 << 6,
	"SPECIAL":     1 << 7,
	"PROGRAMME":   1 << 8,
	"SPORT":       1 << 9,
	"FINANCIAL":   1 << 10,
}

func encodeAnnouncementTypes(types []string) uint16 {
	var bits uint16
	for _, t := range types {
		bits |= announcementTypeBits[t]
	}
	return bits
}
