// Package ioc derives ioctl request codes from their direction, magic
// byte, sequence number and argument size, so that the codes used in
// this repository can be written down the way the kernel headers define
// them and checked against golang.org/x/sys/unix in tests.
//
// Linux lays a request code out as dir:2 size:14 type:8 nr:8, see
// <asm-generic/ioctl.h>. The BSDs, macOS included, use inout:3 len:13
// group:8 num:8, see <sys/ioccom.h>. Only the combinations this
// repository issues are provided.
package ioc

const (
	linuxDirWrite  = 1 << 30
	linuxSizeShift = 16
	linuxTypeShift = 8

	bsdInOut      = 0xc0000000
	bsdParmMask   = 0x1fff
	bsdLenShift   = 16
	bsdGroupShift = 8
)

// IOW derives a Linux request code for an ioctl whose argument of the
// given size is copied from userspace into the kernel, mirroring the
// _IOW() macro. The resulting value is part of the kernel ABI: libcs
// merely differ in the C type they carry it in.
func IOW(magic byte, nr uint8, size uintptr) uint {
	return linuxDirWrite | uint(size)<<linuxSizeShift | uint(magic)<<linuxTypeShift | uint(nr)
}

// IOWR derives a BSD request code for an ioctl whose argument of the
// given size is copied both into and out of the kernel, mirroring the
// _IOWR() macro.
func IOWR(group byte, num uint8, size uintptr) uint {
	return bsdInOut | (uint(size)&bsdParmMask)<<bsdLenShift | uint(group)<<bsdGroupShift | uint(num)
}
