//go:build !(aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris)

package main

import "io"

// isTerminal reports false. Programs are read from standard input.
func isTerminal(r io.Reader) bool {
	return false
}
