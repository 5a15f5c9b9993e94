package qvm

import (
	"unsafe"

	"github.com/ebitengine/purego"
)

// libHandle is one entry in the VM's loaded-libraries table.
type libHandle struct {
	handle uintptr
	path   string
}

// execDLLLoad implements DLL_LOAD: pop a null-terminated cell-region
// string, open the named shared library via purego (cgo-free dynamic
// loading), push its handle index.
func (vm *VM) execDLLLoad() {
	p, ok := vm.pop()
	if !ok {
		return
	}
	path, ok := vm.readCellString(p)
	if !ok {
		return
	}

	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		vm.errcode = errUnknownLibrary
		return
	}

	vm.libs = append(vm.libs, libHandle{handle: h, path: path})
	vm.push(SVFromU16(uint16(len(vm.libs) - 1)))
}

// execDLLCall implements DLL_CALL. The instruction carries the argument
// count and the inline symbol-name string, the same inline-payload shape
// PUSH_STR uses; at runtime the VM pops the library handle and then
// arg_count stack values, builds an FFI call via purego.SyscallN, and
// pushes the returned pointer. Only a pointer return is supported.
func (vm *VM) execDLLCall(instr Instruction) {
	argc := int(instr.Args[0].U16())
	nameLen := int(instr.Args[1].U16())
	nameRunes := make([]rune, nameLen)
	for i := 0; i < nameLen; i++ {
		nameRunes[i] = instr.Args[2+i].Char()
	}
	symbol := string(nameRunes)

	libIdx, ok := vm.pop()
	if !ok {
		return
	}
	if int(libIdx.U16()) >= len(vm.libs) {
		vm.errcode = errUnknownLibrary
		return
	}
	lib := vm.libs[libIdx.U16()]

	fn, err := purego.Dlsym(lib.handle, symbol)
	if err != nil {
		vm.errcode = errMissingSymbol
		return
	}

	args := make([]StackValue, argc)
	for i := 0; i < argc; i++ {
		v, ok := vm.pop()
		if !ok {
			return
		}
		args[argc-1-i] = v
	}

	callArgs := make([]uintptr, 0, argc)
	for _, a := range args {
		switch a.Tag {
		case SVU16:
			callArgs = append(callArgs, uintptr(a.U16()))
		case SVI16:
			callArgs = append(callArgs, uintptr(a.I16()))
		case SVPointer:
			callArgs = append(callArgs, vm.pointerToHostAddr(a))
		default:
			vm.errcode = errUnsupportedFFIArg
			return
		}
	}

	ret, _, _ := purego.SyscallN(fn, callArgs...)
	vm.push(SVFromPointer(uint16(ret), RegionRaw))
}

// pointerToHostAddr converts a VM pointer into a raw address an FFI
// callee can dereference. Raw-region pointers map onto the backing Go
// slice's real memory; cell-region pointers have no C-compatible layout
// and are passed as the bare VM-internal index, which only makes sense
// for callees that were themselves written against this VM's layout.
func (vm *VM) pointerToHostAddr(p StackValue) uintptr {
	if p.Region == RegionRaw && int(p.Addr()) < len(vm.heap.Raw) {
		return uintptr(unsafe.Pointer(&vm.heap.Raw[p.Addr()]))
	}
	return uintptr(p.Addr())
}
