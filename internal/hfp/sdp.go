package hfp

import "encoding/binary"

// dataElementType tags one node of the SDP DataElement tree this package
// builds (spec.md §4.8, C8). Only the subset HFP's record needs is
// implemented: unsigned ints, UUIDs, text strings, and sequences.
type dataElementType byte

const (
	deUint8    dataElementType = 0x08
	deUint16   dataElementType = 0x09
	deUint32   dataElementType = 0x0A
	deUUID16   dataElementType = 0x19
	deText     dataElementType = 0x25
	deSequence dataElementType = 0x35
)

func appendUint8(buf []byte, v uint8) []byte {
	return append(buf, byte(deUint8), v)
}

func appendUint16(buf []byte, v uint16) []byte {
	buf = append(buf, byte(deUint16))
	return binary.BigEndian.AppendUint16(buf, v)
}

func appendUint32(buf []byte, v uint32) []byte {
	buf = append(buf, byte(deUint32))
	return binary.BigEndian.AppendUint32(buf, v)
}

func appendUUID16(buf []byte, v ServiceUUID) []byte {
	buf = append(buf, byte(deUUID16))
	return binary.BigEndian.AppendUint16(buf, uint16(v))
}

func appendText(buf []byte, s string) []byte {
	buf = append(buf, byte(deText), byte(len(s)))
	return append(buf, s...)
}

// appendSequence wraps the bytes produced by build into a DataElement
// sequence header.
func appendSequence(buf []byte, build func([]byte) []byte) []byte {
	inner := build(nil)
	buf = append(buf, byte(deSequence), byte(len(inner)))
	return append(buf, inner...)
}

// BuildServiceRecord is the pure function of (serviceUUID, channelNr,
// name, supportedFeatures) into an SDP service record's bytes
// (spec.md §4.8). It is deliberately side-effect free: publishing the
// record onto a real SDP server is a transport concern (spec.md §1
// Non-goals: "SDP record byte construction" is in scope here, publication
// is not).
func BuildServiceRecord(serviceUUID ServiceUUID, channelNr uint8, name string, supportedFeatures uint16) []byte {
	var buf []byte

	buf = appendUint32(buf, 0x00010001) // Service Record Handle (placeholder, assigned by the SDP server)

	buf = appendSequence(buf, func(b []byte) []byte {
		b = appendUUID16(b, serviceUUID)
		b = appendUUID16(b, ServiceClassGenericAudio)
		return b
	})

	buf = appendSequence(buf, func(b []byte) []byte {
		b = appendSequence(b, func(p []byte) []byte {
			return appendUUID16(p, ProtocolL2CAP)
		})
		b = appendSequence(b, func(p []byte) []byte {
			p = appendUUID16(p, ProtocolRFCOMM)
			p = appendUint8(p, channelNr)
			return p
		})
		return b
	})

	buf = appendSequence(buf, func(b []byte) []byte {
		return appendUUID16(b, ServiceClassPublicBrowseGroup)
	})

	buf = appendSequence(buf, func(b []byte) []byte {
		return appendSequence(b, func(p []byte) []byte {
			p = appendUUID16(p, ProfileHandsfree)
			p = appendUint16(p, 0x0107)
			return p
		})
	})

	buf = appendText(buf, name)
	buf = appendUint16(buf, supportedFeatures)

	return buf
}
