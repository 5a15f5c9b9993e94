//go:build unix

package qvm

import "golang.org/x/sys/unix"

// rawSyscall invokes a raw host syscall using the System V calling
// convention, via golang.org/x/sys/unix. args must already be in
// argument order.
func rawSyscall(num uintptr, args []uintptr) (uintptr, error) {
	var a [6]uintptr
	copy(a[:], args)

	ret, _, errno := unix.Syscall6(num, a[0], a[1], a[2], a[3], a[4], a[5])
	if errno != 0 {
		return 0, errno
	}
	return ret, nil
}
