//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package main

import (
	"bytes"
	"fmt"

	"golang.org/x/sys/unix"
)

// platform describes the operating system for -version.
func platform() string {
	var uname unix.Utsname
	if err := unix.Uname(&uname); err != nil {
		return "unknown"
	}
	sys := bytes.Trim(uname.Sysname[:], "\x00")
	rel := bytes.Trim(uname.Release[:], "\x00")
	mach := bytes.Trim(uname.Machine[:], "\x00")
	return fmt.Sprintf("%s/%s %s", sys, mach, rel)
}
