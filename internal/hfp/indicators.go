package hfp

// Size limits for session state; values follow the limits the profile
// itself imposes. Only MaxLineLength is enforced: it sizes the session's
// line buffer. The indicator, codec and call-service tables are slices that
// the parser grows to whatever length a line carries; the other constants
// here are not checked against them.
const (
	// MaxLineLength bounds a single AT token (spec.md §3: "conventionally 128").
	MaxLineLength = 128

	// MaxAGIndicators bounds the AG indicator table (HFP allows up to 20
	// service-defined plus vendor indicators in practice).
	MaxAGIndicators = 20

	// MaxGenericStatusIndicators bounds the generic (HF) status indicator
	// table. Named HFP_MAX_NUM_HF_INDICATORS in the original source.
	MaxGenericStatusIndicators = 20

	// MaxRemoteCodecs bounds the advertised codec list from AT+BAC.
	MaxRemoteCodecs = 10

	// MaxCallServices bounds the AT+CHLD service name list.
	MaxCallServices = 10

	// EnableStatusUpdateUnset is the sentinel meaning
	// "enable_status_update_for_ag_indicators has not been set yet"
	// (spec.md §3).
	EnableStatusUpdateUnset = 0xFF
)

// AGIndicator is one named AG status indicator with its valid range and
// current value (spec.md §3).
type AGIndicator struct {
	Name string
	// Index is the indicator's 1-based position as advertised over
	// AT+CIND=? (spec.md §4.3).
	Index         int
	MinRange      int
	MaxRange      int
	Status        int
	StatusChanged bool
	// Enabled reports whether status-change notification is currently
	// enabled for this indicator (AT+BIA).
	Enabled bool
	// Mandatory indicators cannot be disabled via AT+BIA (spec.md §4.3).
	Mandatory bool
}

// GenericStatusIndicator is one extensible, UUID-identified boolean status
// indicator (spec.md §3, Glossary).
type GenericStatusIndicator struct {
	UUID  uint16
	State uint8
}

// NetworkOperator is the AG's currently selected network operator
// (spec.md §3, AT+COPS).
type NetworkOperator struct {
	Mode   int
	Format int
	Name   string
}

// Generic status indicator UUIDs defined by the HFP specification
// (Bluetooth SIG Assigned Numbers, "HF Indicators").
const (
	GenericIndicatorEnhancedSafety   uint16 = 1
	GenericIndicatorBatteryLevel     uint16 = 2
)

// DefaultAGIndicators returns the conventional AG indicator template used
// by most HFP Audio Gateways, as a fresh slice a caller can assign to a
// session's AGIndicators. NewSession does not install it; a new session
// starts with an empty indicator table.
func DefaultAGIndicators() []AGIndicator {
	return []AGIndicator{
		{Name: "service", Index: 1, MinRange: 0, MaxRange: 1, Mandatory: true, Enabled: true},
		{Name: "call", Index: 2, MinRange: 0, MaxRange: 1, Mandatory: true, Enabled: true},
		{Name: "callsetup", Index: 3, MinRange: 0, MaxRange: 3, Mandatory: true, Enabled: true},
		{Name: "callheld", Index: 4, MinRange: 0, MaxRange: 2, Mandatory: false, Enabled: true},
		{Name: "signal", Index: 5, MinRange: 0, MaxRange: 5, Mandatory: false, Enabled: true},
		{Name: "roam", Index: 6, MinRange: 0, MaxRange: 1, Mandatory: false, Enabled: true},
		{Name: "battchg", Index: 7, MinRange: 0, MaxRange: 5, Mandatory: false, Enabled: true},
	}
}

// DefaultGenericStatusIndicators returns the conventional HF indicator
// template (Enhanced Safety and Battery Level), the two mandatory generic
// status indicators defined by the HFP specification.
func DefaultGenericStatusIndicators() []GenericStatusIndicator {
	return []GenericStatusIndicator{
		{UUID: GenericIndicatorEnhancedSafety, State: 0},
		{UUID: GenericIndicatorBatteryLevel, State: 0},
	}
}
