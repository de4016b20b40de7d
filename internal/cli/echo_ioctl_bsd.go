//go:build darwin || freebsd || netbsd || openbsd || dragonfly

package cli

import "golang.org/x/sys/unix"

const (
	getAttrRequest = unix.TIOCGETA
	setAttrRequest = unix.TIOCSETA
)
