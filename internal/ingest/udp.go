// Package ingest receives detection batches from the upstream detector and
// drives the tracking registry. Transport is line-oriented JSON over UDP;
// one datagram carries one batch.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/muratams/cabot/internal/monitoring"
	"github.com/muratams/cabot/internal/people"
	"github.com/muratams/cabot/internal/timeutil"
)

// wireBatch is the on-the-wire batch format emitted by the detector bridge.
type wireBatch struct {
	BatchUnixNanos int64     `json:"batch_unix_nanos"`
	Boxes          []wireBox `json:"boxes"`
}

type wireBox struct {
	TrackID   int        `json:"track_id"`
	Class     string     `json:"class"`
	Center3D  [3]float64 `json:"center3d"`
	Color     [3]float32 `json:"color"`
	UnixNanos int64      `json:"unix_nanos,omitempty"` // box capture time; batch time when zero
}

// decodeBatch converts one datagram payload into a detection batch.
func decodeBatch(data []byte) (people.Batch, error) {
	var wb wireBatch
	if err := json.Unmarshal(data, &wb); err != nil {
		return people.Batch{}, fmt.Errorf("unmarshal batch: %w", err)
	}
	if wb.BatchUnixNanos == 0 {
		return people.Batch{}, fmt.Errorf("batch has no timestamp")
	}

	batch := people.Batch{
		Timestamp:  time.Unix(0, wb.BatchUnixNanos),
		Detections: make([]people.Detection, 0, len(wb.Boxes)),
	}
	for _, box := range wb.Boxes {
		det := people.Detection{
			TrackID: box.TrackID,
			Class:   people.ObjectClass(box.Class),
			Position: people.Position{
				X: box.Center3D[0],
				Y: box.Center3D[1],
			},
			Z: box.Center3D[2],
			Color: people.Color{
				R: box.Color[0],
				G: box.Color[1],
				B: box.Color[2],
			},
		}
		if box.UnixNanos != 0 {
			det.Timestamp = time.Unix(0, box.UnixNanos)
		} else {
			det.Timestamp = batch.Timestamp
		}
		batch.Detections = append(batch.Detections, det)
	}
	return batch, nil
}

// Stats tracks listener counters for the periodic log line and the health
// endpoint.
type Stats struct {
	mu              sync.Mutex
	PacketsRcvd     uint64
	BatchesIngested uint64
	DecodeErrors    uint64
	EmitErrors      uint64
}

// Snapshot returns a copy of the counters.
func (s *Stats) Snapshot() (packets, batches, decodeErrs, emitErrs uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.PacketsRcvd, s.BatchesIngested, s.DecodeErrors, s.EmitErrors
}

// UDPListener receives detection batches over UDP and feeds the registry.
type UDPListener struct {
	address     string
	rcvBuf      int
	logInterval time.Duration
	registry    *people.Registry
	emitter     people.Emitter
	clock       timeutil.Clock
	stats       *Stats
	buffer      []byte
}

// UDPListenerConfig contains configuration options for the listener.
type UDPListenerConfig struct {
	Address     string
	RcvBuf      int
	LogInterval time.Duration
	Registry    *people.Registry
	Emitter     people.Emitter
	Clock       timeutil.Clock
	Stats       *Stats
}

// NewUDPListener creates a listener with the provided configuration.
func NewUDPListener(config UDPListenerConfig) *UDPListener {
	clock := config.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	stats := config.Stats
	if stats == nil {
		stats = &Stats{}
	}
	return &UDPListener{
		address:     config.Address,
		rcvBuf:      config.RcvBuf,
		logInterval: config.LogInterval,
		registry:    config.Registry,
		emitter:     config.Emitter,
		clock:       clock,
		stats:       stats,
		buffer:      make([]byte, 64*1024),
	}
}

// Stats returns the listener's counters.
func (l *UDPListener) Stats() *Stats { return l.stats }

// Start listens for batches until the context is cancelled or an
// unrecoverable socket error occurs. Decode and emit failures are counted
// and logged but never stop the loop.
func (l *UDPListener) Start(ctx context.Context) error {
	addr, err := net.ResolveUDPAddr("udp", l.address)
	if err != nil {
		return fmt.Errorf("resolve UDP address: %w", err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("listen on UDP: %w", err)
	}
	defer conn.Close()

	if l.rcvBuf > 0 {
		if err := conn.SetReadBuffer(l.rcvBuf); err != nil {
			monitoring.Logf("warning: failed to set UDP receive buffer to %d bytes: %v", l.rcvBuf, err)
		}
	}

	monitoring.Logf("listening for detection batches on %s", l.address)

	if l.logInterval > 0 {
		go l.logStats(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := conn.SetReadDeadline(time.Now().Add(time.Second)); err != nil {
			return fmt.Errorf("set read deadline: %w", err)
		}
		n, _, err := conn.ReadFromUDP(l.buffer)
		if err != nil {
			if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
				continue
			}
			return fmt.Errorf("read datagram: %w", err)
		}

		l.handlePacket(l.buffer[:n])
	}
}

func (l *UDPListener) handlePacket(data []byte) {
	l.stats.mu.Lock()
	l.stats.PacketsRcvd++
	l.stats.mu.Unlock()

	batch, err := decodeBatch(data)
	if err != nil {
		l.stats.mu.Lock()
		l.stats.DecodeErrors++
		l.stats.mu.Unlock()
		monitoring.Logf("dropping malformed batch: %v", err)
		return
	}

	out := l.registry.Ingest(batch)

	l.stats.mu.Lock()
	l.stats.BatchesIngested++
	l.stats.mu.Unlock()

	if l.emitter != nil {
		if err := l.emitter.Emit(out); err != nil {
			l.stats.mu.Lock()
			l.stats.EmitErrors++
			l.stats.mu.Unlock()
			monitoring.Logf("emit failed for batch %s: %v", batch.Timestamp, err)
		}
	}
}

func (l *UDPListener) logStats(ctx context.Context) {
	ticker := l.clock.NewTicker(l.logInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			packets, batches, decodeErrs, emitErrs := l.stats.Snapshot()
			monitoring.Logf("ingest: %d packets, %d batches, %d decode errors, %d emit errors, %d tracks retained",
				packets, batches, decodeErrs, emitErrs, l.registry.Len())
		}
	}
}
