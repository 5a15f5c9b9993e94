package qvm

import "os"

// execSyscall implements the raw SYSCALL opcode. The syscall
// number is popped first, followed by N argument values (N is the
// immediate operand); each argument converts U16 -> integer, Pointer ->
// address. The platform-specific invocation lives in rawSyscall
// (syscall_unix.go / syscall_unsupported.go) since this opcode assumes a
// host calling convention the VM core itself stays agnostic to.
func (vm *VM) execSyscall(instr Instruction) {
	n := int(instr.Args[0].U16())
	if n > 6 {
		vm.errcode = errUnsupportedSyscall
		return
	}

	num, ok := vm.pop()
	if !ok {
		return
	}

	rawArgs := make([]uintptr, n)
	for i := 0; i < n; i++ {
		v, ok := vm.pop()
		if !ok {
			return
		}
		rawArgs[n-1-i] = uintptr(v.Val)
	}

	ret, err := rawSyscall(uintptr(num.U16()), rawArgs)
	if err != nil {
		vm.errcode = err
		return
	}
	vm.push(SVFromPointer(uint16(ret), RegionRaw))
}

// execStdSyscall implements the portable STD_SYSCALL services:
// 0 exit, 1 open, 2 read_write. These stay on the standard library
// rather than raw syscalls precisely because portability is the point of
// this path versus SYSCALL.
func (vm *VM) execStdSyscall(instr Instruction) {
	n := int(instr.Args[0].U16())

	service, ok := vm.pop()
	if !ok {
		return
	}

	args := make([]StackValue, n)
	for i := 0; i < n; i++ {
		v, ok := vm.pop()
		if !ok {
			return
		}
		args[n-1-i] = v
	}

	switch service.U16() {
	case 0: // exit(code)
		code := uint16(0)
		if len(args) > 0 {
			code = args[0].U16()
		}
		vm.exitCode = int(code)
		vm.errcode = errProgramFinished
		vm.pc = uint16(len(vm.program))

	case 1: // open(path_ptr)
		if len(args) < 1 || args[0].Tag != SVPointer {
			vm.errcode = errSegmentationFault
			return
		}
		path, ok := vm.readCellString(args[0])
		if !ok {
			return
		}
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
		if err != nil {
			vm.errcode = errIO
			return
		}
		vm.fds = append(vm.fds, fdEntry{file: f})
		vm.push(SVFromU16(uint16(len(vm.fds) - 1)))

	case 2: // read_write(mode, buf_ptr, fd, len)
		if len(args) < 4 {
			vm.errcode = errSegmentationFault
			return
		}
		mode, bufPtr, fd, length := args[0], args[1], args[2], args[3]
		if int(fd.U16()) >= len(vm.fds) {
			vm.errcode = errUnknownFD
			return
		}
		f := vm.fds[fd.U16()].file

		if mode.U16() == 0 {
			buf := make([]byte, length.U16())
			n, err := f.Read(buf)
			if err != nil && n == 0 {
				vm.errcode = errIO
				return
			}
			if bufPtr.Tag != SVPointer || bufPtr.Region != RegionRaw {
				vm.errcode = errSegmentationFault
				return
			}
			for i := 0; i < n; i++ {
				if int(bufPtr.Addr())+i >= len(vm.heap.Raw) {
					break
				}
				vm.heap.Raw[int(bufPtr.Addr())+i] = buf[i]
			}
			vm.push(SVFromU16(uint16(n)))
		} else {
			if bufPtr.Tag != SVPointer || bufPtr.Region != RegionRaw {
				vm.errcode = errSegmentationFault
				return
			}
			end := int(bufPtr.Addr()) + int(length.U16())
			if end > len(vm.heap.Raw) {
				end = len(vm.heap.Raw)
			}
			n, err := f.Write(vm.heap.Raw[bufPtr.Addr():end])
			if err != nil {
				vm.errcode = errIO
				return
			}
			vm.push(SVFromU16(uint16(n)))
		}

	default:
		vm.errcode = errUnsupportedSyscall
	}
}

// readCellString reads a null-terminated cell-region string starting at
// ptr (used by STD_SYSCALL open and DLL_LOAD).
func (vm *VM) readCellString(ptr StackValue) (string, bool) {
	if ptr.Tag != SVPointer || ptr.Region != RegionCell {
		vm.errcode = errSegmentationFault
		return "", false
	}
	var runes []rune
	for i := int(ptr.Addr()); i < len(vm.heap.Cell); i++ {
		c := vm.heap.Cell[i]
		if c.U16() == 0 {
			return string(runes), true
		}
		runes = append(runes, rune(c.U16()))
	}
	vm.errcode = errSegmentationFault
	return "", false
}
