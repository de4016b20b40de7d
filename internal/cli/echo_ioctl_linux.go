//go:build linux

package cli

import "golang.org/x/sys/unix"

// ioctl requests for reading and writing terminal attributes.
const (
	getAttrRequest = unix.TCGETS
	setAttrRequest = unix.TCSETS
)
