package bir_nav

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"
)

// RunLive builds the configured driver and runs the control loop until the
// target is reached, the runtime stops or ctx is cancelled.
func RunLive(ctx context.Context, cfg AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	robot, err := OpenRobot(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = robot.Close()
	}()

	var observers []Observer
	viz, err := StartViz(cfg.Viz)
	if err != nil {
		return err
	}
	if viz != nil {
		observers = append(observers, viz)
	}

	var rec *Recorder
	if cfg.Recorder.Path != "" {
		rec, err = OpenRecorder(ctx, cfg.Recorder.Path, cfg.Controller)
		if err != nil {
			return err
		}
		defer func() {
			_ = rec.Close()
		}()
		observers = append(observers, rec)
		Logf("recording run %s to %s", rec.RunID(), cfg.Recorder.Path)
	}
	if cfg.Log.Enabled {
		observers = append(observers, ObserverFunc(logCycle))
	}

	Logf("navigating to (%.5f, %.5f) via %s driver, sensors %s",
		cfg.Controller.Goal.TargetX, cfg.Controller.Goal.TargetZ, cfg.Driver,
		strings.Join(cfg.Controller.Sensors.Names, ","))
	nav := NewNavigator(cfg.Controller)
	res, err := Run(ctx, robot, nav, observers...)
	if rec != nil {
		if ferr := rec.Finish(ctx, res); ferr != nil {
			Logf("recorder: %v", ferr)
		}
	}
	return err
}

// RobotCloser is a Robot backed by a transport that must be released.
type RobotCloser interface {
	Robot
	Close() error
}

// OpenRobot opens the driver selected by cfg.Driver.
func OpenRobot(ctx context.Context, cfg AppConfig) (RobotCloser, error) {
	switch cfg.Driver {
	case DriverSerial:
		r, err := OpenSerialRobot(ctx, cfg.Serial, cfg.TimeStep())
		if err != nil {
			return nil, err
		}
		return r, nil
	case DriverUDP:
		r, err := OpenUDPRobot(ctx, cfg.Live, cfg.Output, cfg.TimeStep())
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown driver %q", cfg.Driver)
	}
}

func logCycle(in CycleInput, res CycleResult) {
	Logf("%8d state=%-7s pos(x=%+.3f z=%+.3f) goal=%.3f "+
		"pressure(l=%.1f r=%.1f) cmd(l=%+.3f r=%+.3f)",
		res.Cycle,
		res.State.String(),
		in.Position.X,
		in.Position.Z,
		res.GoalDistance,
		res.Pressure.Left,
		res.Pressure.Right,
		res.Command.Left,
		res.Command.Right,
	)
}

// telemetryStore holds the latest snapshot received from a transport.
type telemetryStore struct {
	mu   sync.RWMutex
	last Telemetry
	seq  uint64
}

// Update stores the latest snapshot and advances the sequence counter.
func (s *telemetryStore) Update(tel Telemetry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = tel
	s.seq++
}

// Snapshot returns the most recent snapshot and its sequence number.
func (s *telemetryStore) Snapshot() (Telemetry, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.seq
}

// tickRobot implements the timing and snapshot half of Robot shared by the
// transport drivers.
type tickRobot struct {
	store  *telemetryStore
	ticker *time.Ticker
	cur    Telemetry
}

func newTickRobot(step time.Duration) tickRobot {
	return tickRobot{store: &telemetryStore{}, ticker: time.NewTicker(step)}
}

// Step waits for the next tick and latches the newest snapshot. Ticks
// before the first snapshot arrives are skipped.
func (r *tickRobot) Step(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.ticker.C:
		}
		tel, seq := r.store.Snapshot()
		if seq == 0 {
			continue
		}
		r.cur = tel
		return nil
	}
}

// Readings returns the sensor values latched by the last Step.
func (r *tickRobot) Readings() Readings {
	return r.cur.Readings
}

// Position returns the position latched by the last Step.
func (r *tickRobot) Position() Position {
	return r.cur.Position
}

// UDPRobot receives telemetry datagrams and sends wheel commands over UDP.
type UDPRobot struct {
	tickRobot
	conn   *net.UDPConn
	sender *OutputSender
}

// OpenUDPRobot starts listening for telemetry and dials the command output.
func OpenUDPRobot(ctx context.Context, live LiveConfig, out OutputConfig, step time.Duration) (*UDPRobot, error) {
	addr, err := net.ResolveUDPAddr("udp", live.UDPAddr)
	if err != nil {
		return nil, fmt.Errorf("resolve live addr: %w", err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen live addr: %w", err)
	}
	sender, err := NewOutputSender(out.UDPAddr)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("dial output addr: %w", err)
	}

	r := &UDPRobot{tickRobot: newTickRobot(step), conn: conn, sender: sender}

	bufSize := live.ReadBuffer
	if bufSize <= 0 {
		bufSize = 2048
	}
	go r.listen(ctx, bufSize)
	return r, nil
}

// readErrBackoff is the pause after a failed telemetry read.
const readErrBackoff = 50 * time.Millisecond

// listen feeds parsed datagrams into the store until the socket closes.
func (r *UDPRobot) listen(ctx context.Context, bufSize int) {
	buf := make([]byte, bufSize)
	for {
		n, _, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			Logf("udp read: %v", err)
			time.Sleep(readErrBackoff)
			continue
		}
		tel, err := ParseTelemetry(buf[:n])
		if err != nil {
			continue
		}
		r.store.Update(tel)
	}
}

// LocalAddr returns the address telemetry is received on.
func (r *UDPRobot) LocalAddr() net.Addr {
	return r.conn.LocalAddr()
}

// SetVelocity sends the wheel command datagram.
func (r *UDPRobot) SetVelocity(left, right float64) error {
	return r.sender.Send(WheelCommand{Left: left, Right: right})
}

// Close stops the ticker and releases both sockets.
func (r *UDPRobot) Close() error {
	r.ticker.Stop()
	err := r.conn.Close()
	if serr := r.sender.Close(); err == nil {
		err = serr
	}
	return err
}
