package bir_nav

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
)

// PortOptions describes the serial connection parameters used when opening
// the robot's serial link.
type PortOptions struct {
	BaudRate int    `json:"baud_rate"`
	DataBits int    `json:"data_bits"`
	StopBits int    `json:"stop_bits"`
	Parity   string `json:"parity"`
}

// Normalize validates the options and applies defaults for any unset values.
func (o PortOptions) Normalize() (PortOptions, error) {
	opts := o

	if opts.BaudRate <= 0 {
		opts.BaudRate = 115200
	}

	if opts.DataBits == 0 {
		opts.DataBits = 8
	}
	if opts.DataBits < 5 || opts.DataBits > 8 {
		return opts, fmt.Errorf("invalid data bits %d: must be between 5 and 8", opts.DataBits)
	}

	if opts.StopBits == 0 {
		opts.StopBits = 1
	}
	if opts.StopBits != 1 && opts.StopBits != 2 {
		return opts, fmt.Errorf("invalid stop bits %d: supported values are 1 or 2", opts.StopBits)
	}

	switch strings.TrimSpace(strings.ToUpper(opts.Parity)) {
	case "", "N", "NONE":
		opts.Parity = "N"
	case "E", "EVEN":
		opts.Parity = "E"
	case "O", "ODD":
		opts.Parity = "O"
	default:
		return opts, fmt.Errorf("unsupported parity %q: expected N, E, or O", opts.Parity)
	}

	return opts, nil
}

// SerialMode converts the options into the serial.Mode required by
// go.bug.st/serial.
func (o PortOptions) SerialMode() (*serial.Mode, error) {
	opts, err := o.Normalize()
	if err != nil {
		return nil, err
	}

	mode := &serial.Mode{
		BaudRate: opts.BaudRate,
		DataBits: opts.DataBits,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	if opts.StopBits == 2 {
		mode.StopBits = serial.TwoStopBits
	}
	switch opts.Parity {
	case "E":
		mode.Parity = serial.EvenParity
	case "O":
		mode.Parity = serial.OddParity
	}
	return mode, nil
}

// SerialRobot exchanges newline-terminated telemetry and command lines over
// a serial link.
type SerialRobot struct {
	tickRobot
	port io.ReadWriteCloser

	wmu sync.Mutex
}

// OpenSerialRobot opens the configured serial port and starts reading telemetry.
func OpenSerialRobot(ctx context.Context, cfg SerialConfig, step time.Duration) (*SerialRobot, error) {
	mode, err := cfg.Options.SerialMode()
	if err != nil {
		return nil, err
	}
	port, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %q: %w", cfg.Port, err)
	}
	return NewSerialRobot(ctx, port, step), nil
}

// NewSerialRobot wraps an already open port.
func NewSerialRobot(ctx context.Context, port io.ReadWriteCloser, step time.Duration) *SerialRobot {
	r := &SerialRobot{tickRobot: newTickRobot(step), port: port}
	go r.readLoop(ctx)
	return r
}

// readLoop parses one telemetry snapshot per line until the port closes.
func (r *SerialRobot) readLoop(ctx context.Context) {
	scanner := bufio.NewScanner(r.port)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		tel, err := ParseTelemetry(scanner.Bytes())
		if err != nil {
			continue
		}
		r.store.Update(tel)
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		Logf("serial read: %v", err)
	}
}

// SetVelocity writes a "left,right" command line.
func (r *SerialRobot) SetVelocity(left, right float64) error {
	r.wmu.Lock()
	defer r.wmu.Unlock()
	_, err := io.WriteString(r.port, FormatCommand(WheelCommand{Left: left, Right: right})+"\n")
	return err
}

// Close stops the ticker and closes the port.
func (r *SerialRobot) Close() error {
	r.ticker.Stop()
	return r.port.Close()
}
