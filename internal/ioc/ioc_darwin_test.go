package ioc_test

import (
	"github.com/cirruslabs/tuntap/internal/ioc"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
	"testing"
	"unsafe"
)

func TestIOWR(t *testing.T) {
	// CTLIOCGINFO is _IOWR('N', 3, struct ctl_info), see
	// <sys/kern_control.h>.
	require.EqualValues(t, unix.CTLIOCGINFO, ioc.IOWR('N', 3, unsafe.Sizeof(unix.CtlInfo{})))
}
