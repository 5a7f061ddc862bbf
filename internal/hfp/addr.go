package hfp

import "fmt"

// Addr is a 6-byte Bluetooth device address, most significant byte first.
type Addr [6]byte

// String renders the address as colon-separated uppercase hex, e.g.
// "00:11:22:33:44:55".
func (a Addr) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", a[0], a[1], a[2], a[3], a[4], a[5])
}

// IsZero reports whether the address is the all-zero sentinel used for
// "no address assigned yet".
func (a Addr) IsZero() bool {
	return a == Addr{}
}

// ServiceUUID identifies the SDP service class an SLC is being established
// against (e.g. Handsfree or Handsfree Audio Gateway).
type ServiceUUID uint16

// Standard HFP service class UUIDs (Bluetooth Assigned Numbers).
const (
	ServiceClassHandsfree         ServiceUUID = 0x111E
	ServiceClassHandsfreeAudioGW  ServiceUUID = 0x111F
	ServiceClassGenericAudio      ServiceUUID = 0x1203
	ServiceClassPublicBrowseGroup ServiceUUID = 0x1002
	ProtocolL2CAP                 ServiceUUID = 0x0100
	ProtocolRFCOMM                ServiceUUID = 0x0003
	ProfileHandsfree              ServiceUUID = 0x111E
)
