//go:build linux || darwin

package shmregion

import (
	"golang.org/x/sys/unix"
)

func pagesize() int {
	return unix.Getpagesize()
}

// mmapFile maps length bytes of fd starting at offset. Unix mappings
// carry no platform-private handle, so extra is always nil.
func mmapFile(fd int, offset int64, length int) (mem []byte, extra any, err error) {
	mem, err = unix.Mmap(fd, offset, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	return mem, nil, err
}

func munmapBytes(mem []byte, _ any) error {
	return unix.Munmap(mem)
}
