package bir_nav

import (
	"net"
)

// OutputSender sends wheel commands over UDP as CSV.
type OutputSender struct {
	conn *net.UDPConn
}

// NewOutputSender creates a UDP sender for the given address. An empty
// address yields a sender that drops every command.
func NewOutputSender(addr string) (*OutputSender, error) {
	if addr == "" {
		return &OutputSender{}, nil
	}
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		return nil, err
	}
	return &OutputSender{conn: conn}, nil
}

// Close releases the UDP socket.
func (s *OutputSender) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// Send writes one wheel command datagram.
func (s *OutputSender) Send(cmd WheelCommand) error {
	if s == nil || s.conn == nil {
		return nil
	}
	_, err := s.conn.Write([]byte(FormatCommand(cmd)))
	return err
}
