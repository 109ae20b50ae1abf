package fig

import "time"

// DefaultEncoders builds the ordered FIG encoder set a standard
// ensemble carries: the mandatory type-0 information, the labels, the
// dynamic-label carousel, and (when caEnabled) the type-6 conditional-
// access FIGs (spec §4.2 table, §6 "conditional_access"). The order
// given here is the carousel's round-robin insertion order for ties
// (spec §4.3 step 2).
func DefaultEncoders(caEnabled bool) []Encoder {
	encoders := []Encoder{
		NewEnsemble(),
		NewConfigInfo(),
		NewSubchannelOrg(),
		NewServiceComponentsStream(),
		NewPacketServiceComponents(),
		NewComponentLanguage(),
		NewServiceLinking(),
		NewServiceComponentGlobal(),
		NewCountryLTO(),
		NewDateTime(time.Now),
		NewUserApplicationInfo(),
		NewFECSubchannelOrg(),
		NewProgrammeType(),
		NewAnnouncementSupport(),
		NewAnnouncementSwitching(),
		NewFrequencyInformation(),
		NewOtherEnsembleServices(),
		NewEnsembleLabel(),
		NewServiceLabel(),
		NewComponentLabel(),
		NewDynamicLabel(),
	}
	if caEnabled {
		encoders = append(encoders, NewCAOrganisation(), NewCAService())
	}
	return encoders
}
