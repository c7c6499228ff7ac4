//go:build !linux && !darwin && !windows

package shmregion

import "errors"

// ErrUnsupported indicates the current platform has no mapping
// implementation wired up.
var ErrUnsupported = errors.New("shmregion: unsupported platform")

func pagesize() int { return 4096 }

func mmapFile(fd int, offset int64, length int) (mem []byte, extra any, err error) {
	return nil, nil, ErrUnsupported
}

func munmapBytes(mem []byte, extra any) error {
	return ErrUnsupported
}
