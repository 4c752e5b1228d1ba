package layout

import (
	"errors"
	"fmt"
)

// Layout errors.
var (
	// ErrInvalidSize indicates the region cannot hold two buffers and two control bytes.
	ErrInvalidSize = errors.New("invalid region size")
)

// MinRegionSize is the smallest region that holds two one-byte buffers
// plus two control bytes.
const MinRegionSize = 4

// Role selects which half of the region a side writes to.
type Role uint8

const (
	// RoleHost is the controlling side (historically the hypervisor).
	RoleHost Role = 0
	// RolePeer is the isolated side (historically the guest).
	RolePeer Role = 1
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleHost:
		return "HOST"
	case RolePeer:
		return "PEER"
	default:
		return "UNKNOWN"
	}
}

// Mirror returns the opposite role.
func (r Role) Mirror() Role {
	if r == RoleHost {
		return RolePeer
	}
	return RoleHost
}

// Layout describes the byte ranges one side of a channel uses.
// All offsets are absolute positions within the region.
type Layout struct {
	RegionSize int64
	Role       Role

	OutputOffset int64
	OutputSize   int64
	InputOffset  int64
	InputSize    int64

	ControlOutOffset int64
	ControlInOffset  int64
}

// Compute derives the layout for the given region size and role.
// The size must be even and at least MinRegionSize.
func Compute(regionSize int64, role Role) (Layout, error) {
	if regionSize < MinRegionSize {
		return Layout{}, fmt.Errorf("%w: %d < %d", ErrInvalidSize, regionSize, MinRegionSize)
	}
	if regionSize%2 != 0 {
		return Layout{}, fmt.Errorf("%w: %d is not even", ErrInvalidSize, regionSize)
	}
	if role != RoleHost && role != RolePeer {
		return Layout{}, fmt.Errorf("unknown role %d", role)
	}

	bufSize := regionSize/2 - 1
	hostOut := int64(0)
	peerOut := bufSize
	hostCtl := regionSize - 2
	peerCtl := regionSize - 1

	l := Layout{
		RegionSize: regionSize,
		Role:       role,
		OutputSize: bufSize,
		InputSize:  bufSize,
	}
	if role == RoleHost {
		l.OutputOffset, l.InputOffset = hostOut, peerOut
		l.ControlOutOffset, l.ControlInOffset = hostCtl, peerCtl
	} else {
		l.OutputOffset, l.InputOffset = peerOut, hostOut
		l.ControlOutOffset, l.ControlInOffset = peerCtl, hostCtl
	}
	return l, nil
}

// Mirror returns the layout the other side of the channel computes.
func (l Layout) Mirror() Layout {
	return Layout{
		RegionSize:       l.RegionSize,
		Role:             l.Role.Mirror(),
		OutputOffset:     l.InputOffset,
		OutputSize:       l.InputSize,
		InputOffset:      l.OutputOffset,
		InputSize:        l.OutputSize,
		ControlOutOffset: l.ControlInOffset,
		ControlInOffset:  l.ControlOutOffset,
	}
}

// String returns a compact description of the layout.
func (l Layout) String() string {
	return fmt.Sprintf("%s out=[%d,+%d) in=[%d,+%d) ctl-out=%d ctl-in=%d",
		l.Role, l.OutputOffset, l.OutputSize, l.InputOffset, l.InputSize,
		l.ControlOutOffset, l.ControlInOffset)
}
