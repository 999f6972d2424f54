//go:build !linux

package platform

// MPRIS is a stub for non-Linux platforms.
type MPRIS struct{}

// Initialize returns nil on non-Linux platforms (MPRIS not supported).
func Initialize(p Player, sender CmdSender) (*MPRIS, error) {
	return nil, nil
}

// Close is a no-op on non-Linux platforms.
func (m *MPRIS) Close() {}
