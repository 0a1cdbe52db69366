package channel

import (
	"errors"
	"fmt"
	"net"

	"chatteroo"
)

// UDPChannel is a best-effort local transport for demos and
// multi-process testing: every station listens on the same UDP
// broadcast address and every Send reaches every other station on the
// LAN, the way packet-radio broadcast actually behaves. It does not
// implement real AX.25 addressing - UDPChannel carries the destination
// and source address fields a true AX.25 frame would hold in its own
// header directly ahead of the Chatteroo payload, so Unwrap still sees
// exactly what protocol section 4.4 expects.
type UDPChannel struct {
	conn          *net.UDPConn
	broadcastAddr *net.UDPAddr
}

// NewUDPChannel opens a UDP socket bound to listenAddr (e.g.
// ":7373") and configured to broadcast to broadcastAddr (e.g.
// "255.255.255.255:7373").
func NewUDPChannel(listenAddr, broadcastAddr string) (*UDPChannel, error) {
	laddr, err := net.ResolveUDPAddr("udp4", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("chatteroo/channel: resolve listen address: %w", err)
	}
	baddr, err := net.ResolveUDPAddr("udp4", broadcastAddr)
	if err != nil {
		return nil, fmt.Errorf("chatteroo/channel: resolve broadcast address: %w", err)
	}
	conn, err := net.ListenUDP("udp4", laddr)
	if err != nil {
		return nil, fmt.Errorf("chatteroo/channel: listen: %w", err)
	}
	return &UDPChannel{conn: conn, broadcastAddr: baddr}, nil
}

// Close releases the underlying socket.
func (u *UDPChannel) Close() error {
	return u.conn.Close()
}

// isOfflineErr reports whether err indicates the socket itself is gone
// (closed locally) rather than some other, possibly transient, network
// failure - the distinction between the core's single "Offline" channel
// failure and a ProtocolError worth separately diagnosing.
func isOfflineErr(err error) bool {
	return errors.Is(err, net.ErrClosed)
}

// Send wraps t and broadcasts it, prefixed with the destination and
// source address fields a real link layer would carry alongside it.
func (u *UDPChannel) Send(t chatteroo.Transmission) error {
	destCallsign := DestinationCallsign(t.Network)
	payload := Wrap(t)

	datagram := encodeDatagram(destCallsign, t.Version.SSID(), t.Sender.Callsign(), t.Sender.SSID(), payload)
	if _, err := u.conn.WriteToUDP(datagram, u.broadcastAddr); err != nil {
		if isOfflineErr(err) {
			return ErrOffline
		}
		return &chatteroo.ProtocolError{Underlying: err}
	}
	return nil
}

// Receive blocks for the next datagram and unwraps it. Datagrams this
// station itself broadcast are not filtered out here; callers that
// care should compare the returned Transmission's Sender against their
// own station.
func (u *UDPChannel) Receive() (chatteroo.Transmission, error) {
	buf := make([]byte, 1500)
	n, _, err := u.conn.ReadFromUDP(buf)
	if err != nil {
		if isOfflineErr(err) {
			return chatteroo.Transmission{}, ErrOffline
		}
		return chatteroo.Transmission{}, &chatteroo.ProtocolError{Underlying: err}
	}
	destCallsign, destSSID, srcCallsign, srcSSID, payload, err := decodeDatagram(buf[:n])
	if err != nil {
		return chatteroo.Transmission{}, err
	}
	return Unwrap(destCallsign, destSSID, srcCallsign, srcSSID, payload)
}

// encodeDatagram lays out a demo-transport-only envelope: length-
// prefixed destination callsign, its SSID, length-prefixed source
// callsign, its SSID, then the wrapped Chatteroo payload.
func encodeDatagram(destCallsign string, destSSID uint8, srcCallsign string, srcSSID uint8, payload []byte) []byte {
	out := make([]byte, 0, 2+len(destCallsign)+len(srcCallsign)+len(payload))
	out = append(out, byte(len(destCallsign)))
	out = append(out, destCallsign...)
	out = append(out, destSSID)
	out = append(out, byte(len(srcCallsign)))
	out = append(out, srcCallsign...)
	out = append(out, srcSSID)
	out = append(out, payload...)
	return out
}

func decodeDatagram(buf []byte) (destCallsign string, destSSID uint8, srcCallsign string, srcSSID uint8, payload []byte, err error) {
	if len(buf) < 1 {
		return "", 0, "", 0, nil, chatteroo.ErrTruncated
	}
	destLen := int(buf[0])
	buf = buf[1:]
	if len(buf) < destLen+1 {
		return "", 0, "", 0, nil, chatteroo.ErrTruncated
	}
	destCallsign = string(buf[:destLen])
	destSSID = buf[destLen]
	buf = buf[destLen+1:]

	if len(buf) < 1 {
		return "", 0, "", 0, nil, chatteroo.ErrTruncated
	}
	srcLen := int(buf[0])
	buf = buf[1:]
	if len(buf) < srcLen+1 {
		return "", 0, "", 0, nil, chatteroo.ErrTruncated
	}
	srcCallsign = string(buf[:srcLen])
	srcSSID = buf[srcLen]
	payload = buf[srcLen+1:]
	return destCallsign, destSSID, srcCallsign, srcSSID, payload, nil
}
