package devices

import (
	"bytes"
	"context"
	"encoding/binary"
	"net"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Header starts every telemetry datagram.
type Header struct {
	Type uint8
}

const (
	TypeTelemetry = 1
	TypeTiming    = 2
)

// ErrNotTelemetry is returned by Decode for datagrams of other types.
var ErrNotTelemetry = errors.New("not a telemetry packet")

// Packet is the vehicle telemetry record that follows the header, encoded
// little-endian without padding.
type Packet struct {
	RPM         float32
	OilPressure float32
	Speed       float32

	FuelRemaining float32
	FuelLevel     uint8

	OilTemp        float32
	CoolantTemp    float32
	AirIntakeTemp  float32
	BatteryVoltage float32

	Latitude      float64
	Longitude     float64
	Altitude      float32
	Track         float32
	GPSSpeed      float32
	GasPedalAngle uint8
}

// TelemetryKeys are the readings a Telemetry device publishes.
var TelemetryKeys = []string{
	"rpm", "oil.pressure", "speed",
	"fuel.remaining", "fuel.level",
	"oil.temp", "coolant.temp", "intake.temp", "battery.voltage",
	"latitude", "longitude", "altitude", "track", "gps.speed", "pedal",
}

func (p Packet) readings() map[string]float64 {
	return map[string]float64{
		"rpm":             float64(p.RPM),
		"oil.pressure":    float64(p.OilPressure),
		"speed":           float64(p.Speed),
		"fuel.remaining":  float64(p.FuelRemaining),
		"fuel.level":      float64(p.FuelLevel),
		"oil.temp":        float64(p.OilTemp),
		"coolant.temp":    float64(p.CoolantTemp),
		"intake.temp":     float64(p.AirIntakeTemp),
		"battery.voltage": float64(p.BatteryVoltage),
		"latitude":        p.Latitude,
		"longitude":       p.Longitude,
		"altitude":        float64(p.Altitude),
		"track":           float64(p.Track),
		"gps.speed":       float64(p.GPSSpeed),
		"pedal":           float64(p.GasPedalAngle),
	}
}

// Decode reads one datagram.
func Decode(b []byte) (Packet, error) {
	rdr := bytes.NewReader(b)
	hdr := Header{}
	if err := binary.Read(rdr, binary.LittleEndian, &hdr); err != nil {
		return Packet{}, errors.Wrap(err, "unable to read packet header")
	}
	if hdr.Type != TypeTelemetry {
		return Packet{}, errors.Wrapf(ErrNotTelemetry, "type %d", hdr.Type)
	}
	p := Packet{}
	if err := binary.Read(rdr, binary.LittleEndian, &p); err != nil {
		return Packet{}, errors.Wrap(err, "unable to read telemetry packet")
	}
	return p, nil
}

// Encode writes p as a datagram Decode accepts.
func Encode(p *Packet) ([]byte, error) {
	buf := bytes.NewBuffer([]byte{})
	if err := binary.Write(buf, binary.LittleEndian, &Header{Type: TypeTelemetry}); err != nil {
		return nil, errors.Wrap(err, "unable to write packet header")
	}
	if err := binary.Write(buf, binary.LittleEndian, p); err != nil {
		return nil, errors.Wrap(err, "unable to write telemetry packet")
	}
	return buf.Bytes(), nil
}

// Telemetry receives vehicle telemetry datagrams over UDP.  Each datagram
// replaces all readings; they read zero until the first arrives.
type Telemetry struct {
	readings
	conn net.PacketConn
}

// ListenTelemetry binds addr, e.g. ":5000".  Datagrams are read by Listen.
func ListenTelemetry(addr string) (*Telemetry, error) {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listening for telemetry on %s", addr)
	}
	t := &Telemetry{readings: newReadings(), conn: conn}
	t.replace(Packet{}.readings())
	return t, nil
}

func (t *Telemetry) LocalAddr() net.Addr {
	return t.conn.LocalAddr()
}

// Update does nothing: readings arrive through Listen.
func (t *Telemetry) Update() error {
	return nil
}

// Listen reads datagrams until ctx is done, then closes the socket.
// Datagrams that fail to decode are logged and dropped.
func (t *Telemetry) Listen(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = t.conn.Close()
		case <-stop:
		}
	}()
	buffer := make([]byte, 1024)
	for {
		n, from, err := t.conn.ReadFrom(buffer)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrap(err, "reading telemetry")
		}
		p, err := Decode(buffer[:n])
		if err != nil {
			if !errors.Is(err, ErrNotTelemetry) {
				log.WithField("from", from.String()).WithError(err).Warn("dropping telemetry datagram")
			}
			continue
		}
		t.replace(p.readings())
	}
}

func (t *Telemetry) Close() error {
	return t.conn.Close()
}
