//go:build !(aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris)

package main

import "runtime"

func platform() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}
