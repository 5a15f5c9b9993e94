//go:build !unix

package qvm

// rawSyscall has no portable meaning off a host that exposes a user-mode
// `syscall` instruction: implementations on
// other platforms should omit SYSCALL or emulate it, so this build
// surfaces it as a fatal, recoverable-at-the-call-site error instead of
// failing to compile.
func rawSyscall(num uintptr, args []uintptr) (uintptr, error) {
	return 0, errUnsupportedSyscall
}
