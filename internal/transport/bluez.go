package transport

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/hfpstack/gohfp/internal/hfp"
)

// -------------------------------------------------------------------------
// BlueZ — real hfp.RFCOMM / hfp.SDP backed by org.bluez over D-Bus
// -------------------------------------------------------------------------

const (
	bluezDest           = "org.bluez"
	profileManagerPath  = dbus.ObjectPath("/org/bluez")
	profileManagerIface = "org.bluez.ProfileManager1"
	deviceIface         = "org.bluez.Device1"
	adapterIface        = "org.bluez.Adapter1"
)

// BlueZ implements hfp.RFCOMM and hfp.SDP against a real Bluetooth
// controller through bluezd's D-Bus API. It registers an RFCOMM profile
// for the Handsfree service class, resolves a peer's device object by
// address, and connects the profile through org.bluez.Device1.
//
// The RFCOMM byte stream itself is not handled here: bluezd hands a
// connected socket fd to a registered profile's NewConnection D-Bus method,
// and this package implements no org.bluez.Profile1 object to receive it.
// BlueZ only records which device object path each cid it assigns belongs
// to.
type BlueZ struct {
	conn      *dbus.Conn
	adapter   dbus.ObjectPath
	localUUID string

	mu      sync.Mutex
	cidPath map[uint16]dbus.ObjectPath
	pathCid map[dbus.ObjectPath]uint16
	nextCid uint16
}

// NewBlueZ connects to the system bus and targets the given adapter
// object path (commonly "/org/bluez/hci0").
func NewBlueZ(adapter dbus.ObjectPath) (*BlueZ, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("transport: connect system bus: %w", err)
	}
	return &BlueZ{
		conn:    conn,
		adapter: adapter,
		cidPath: make(map[uint16]dbus.ObjectPath),
		pathCid: make(map[dbus.ObjectPath]uint16),
		nextCid: 1,
	}, nil
}

// Close releases the underlying D-Bus connection.
func (b *BlueZ) Close() error {
	return b.conn.Close()
}

// RegisterService registers an RFCOMM-backed profile for the Handsfree
// Audio Gateway service class via org.bluez.ProfileManager1.RegisterProfile.
func (b *BlueZ) RegisterService(channelNr uint8, mtu uint16) error {
	uuid := fmt.Sprintf("%08x-0000-1000-8000-00805f9b34fb", uint32(hfp.ServiceClassHandsfreeAudioGW))
	b.localUUID = uuid

	opts := map[string]dbus.Variant{
		"Channel":    dbus.MakeVariant(uint16(channelNr)),
		"RequireAuthentication": dbus.MakeVariant(false),
		"AutoConnect": dbus.MakeVariant(true),
	}
	path := dbus.ObjectPath("/gohfp/profile/hfpag")

	obj := b.conn.Object(bluezDest, profileManagerPath)
	call := obj.Call(profileManagerIface+".RegisterProfile", 0, path, uuid, opts)
	return call.Err
}

// addrToDevicePath maps a 6-byte address to the BlueZ object path BlueZ
// exposes it under, e.g. "/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF".
func (b *BlueZ) addrToDevicePath(addr hfp.Addr) dbus.ObjectPath {
	s := addr.String()
	devSuffix := ""
	for _, r := range s {
		if r == ':' {
			devSuffix += "_"
		} else {
			devSuffix += string(r)
		}
	}
	return dbus.ObjectPath(string(b.adapter) + "/dev_" + devSuffix)
}

// CreateChannel connects the Handsfree Audio Gateway profile on the
// device at addr via org.bluez.Device1.ConnectProfile.
func (b *BlueZ) CreateChannel(addr hfp.Addr, channelNr uint8) error {
	path := b.addrToDevicePath(addr)
	obj := b.conn.Object(bluezDest, path)
	uuid := fmt.Sprintf("%08x-0000-1000-8000-00805f9b34fb", uint32(hfp.ServiceClassHandsfreeAudioGW))
	call := obj.Call(deviceIface+".ConnectProfile", 0, uuid)
	if call.Err != nil {
		return call.Err
	}
	b.mu.Lock()
	cid := b.nextCid
	b.nextCid++
	b.cidPath[cid] = path
	b.pathCid[path] = cid
	b.mu.Unlock()
	return nil
}

// Accept is a no-op for BlueZ-mediated connections: bluezd has already
// accepted the RFCOMM connection by the time it makes the profile's
// NewConnection call.
func (b *BlueZ) Accept(cid uint16) error {
	return nil
}

// Send reports an error if cid was not assigned by CreateChannel and
// otherwise returns nil without writing data anywhere: this adapter holds
// no RFCOMM socket (see the BlueZ type comment). It exists to satisfy
// hfp.RFCOMM.
func (b *BlueZ) Send(cid uint16, data []byte) error {
	b.mu.Lock()
	_, ok := b.cidPath[cid]
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("transport: no bluez connection for cid %d", cid)
	}
	return nil
}

// QueryRFCOMMChannelForUUID reads the device's ServicesResolved property,
// which bluezd sets once it has finished service discovery, and returns an
// error if it cannot be read or is false. It does not read the device's
// UUIDs, does not look up an RFCOMM channel number for uuid, and reports
// no channel back to the Manager.
func (b *BlueZ) QueryRFCOMMChannelForUUID(addr hfp.Addr, uuid hfp.ServiceUUID) error {
	path := b.addrToDevicePath(addr)
	obj := b.conn.Object(bluezDest, path)
	variant, err := obj.GetProperty(deviceIface + ".ServicesResolved")
	if err != nil {
		return fmt.Errorf("transport: read ServicesResolved: %w", err)
	}
	resolved, _ := variant.Value().(bool)
	if !resolved {
		return fmt.Errorf("transport: services not yet resolved for %s", addr)
	}
	return nil
}
