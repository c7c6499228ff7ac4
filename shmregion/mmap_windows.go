//go:build windows

package shmregion

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// windowsAllocationGranularity is the Windows equivalent of a page size
// for the purposes of MapViewOfFile's offset alignment requirement: the
// offset must be a multiple of the system's allocation granularity, not
// merely its page size.
var windowsAllocationGranularity = func() int {
	var info windows.SystemInfo
	windows.GetSystemInfo(&info)
	if info.AllocationGranularity == 0 {
		return 65536
	}
	return int(info.AllocationGranularity)
}()

func pagesize() int {
	return windowsAllocationGranularity
}

// mmapFile maps length bytes of the file backing fd (a raw Windows
// HANDLE smuggled through NativeHandle as an int) starting at offset.
// extra carries the file-mapping object handle, which Unmap must close
// after UnmapViewOfFile.
func mmapFile(fd int, offset int64, length int) (mem []byte, extra any, err error) {
	h := windows.Handle(uintptr(fd))

	mapping, err := windows.CreateFileMapping(h, nil, windows.PAGE_READWRITE, 0, 0, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("CreateFileMapping: %w", err)
	}

	offsetHigh := uint32(offset >> 32)
	offsetLow := uint32(offset & 0xFFFFFFFF)

	addr, err := windows.MapViewOfFile(mapping, windows.FILE_MAP_READ|windows.FILE_MAP_WRITE, offsetHigh, offsetLow, uintptr(length))
	if err != nil {
		windows.CloseHandle(mapping)
		return nil, nil, fmt.Errorf("MapViewOfFile: %w", err)
	}

	mem = unsafe.Slice((*byte)(unsafe.Pointer(addr)), length)
	return mem, mapping, nil
}

func munmapBytes(mem []byte, extra any) error {
	if len(mem) > 0 {
		addr := uintptr(unsafe.Pointer(&mem[0]))
		if err := windows.UnmapViewOfFile(addr); err != nil {
			return fmt.Errorf("UnmapViewOfFile: %w", err)
		}
	}
	if mapping, ok := extra.(windows.Handle); ok {
		return windows.CloseHandle(mapping)
	}
	return nil
}
