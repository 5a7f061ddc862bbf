package hfp

// AG-side supported-features bits exchanged over AT+BRSF (Bluetooth HFP
// Assigned Numbers). Only the bits this core's session state and indicator
// handling actually reason about are named; the rest pass through
// remote_supported_features untouched.
const (
	FeatureAGThreeWayCalling          uint32 = 1 << 0
	FeatureAGECNoiseReduction         uint32 = 1 << 1
	FeatureAGVoiceRecognition         uint32 = 1 << 2
	FeatureAGInBandRingTone           uint32 = 1 << 3
	FeatureAGAttachNumberToVoiceTag   uint32 = 1 << 4
	FeatureAGAbilityToReject          uint32 = 1 << 5
	FeatureAGEnhancedCallStatus       uint32 = 1 << 6
	FeatureAGEnhancedCallControl      uint32 = 1 << 7
	FeatureAGExtendedErrorResultCodes uint32 = 1 << 8
	FeatureAGCodecNegotiation         uint32 = 1 << 9
	FeatureAGHFIndicators             uint32 = 1 << 10
	FeatureAGESCOS4Settings           uint32 = 1 << 11
)

// HasFeature reports whether bit is set in the session's
// RemoteSupportedFeatures bitmap, using the package-level GetBit helper
// that EnableStatusUpdateForIndividualAGIndicators also uses for its
// AT+BIA bitmap.
func (s *Session) HasFeature(bit uint32) bool {
	for pos := 0; pos < 32; pos++ {
		if uint32(1)<<pos == bit {
			return GetBit(s.RemoteSupportedFeatures, pos) != 0
		}
	}
	return false
}

// CodecsString renders the session's negotiated-eligible remote codec
// list as a comma-separated decimal string, e.g. for log lines.
func (s *Session) CodecsString() string {
	return joinDecimal(s.RemoteCodecs[:s.RemoteCodecsNr])
}
