package qvm

import (
	"strconv"

	"github.com/x448/float16"
)

// WordTag identifies the type carried by a Word.
// Values match the bytecode codec's tag byte exactly (see Instruction
// encoding in bytecode.go): 0=U16, 1=F16, 2=Char, 3=I16.
type WordTag byte

const (
	TagU16  WordTag = 0
	TagF16  WordTag = 1
	TagChar WordTag = 2
	TagI16  WordTag = 3
)

func (t WordTag) String() string {
	switch t {
	case TagU16:
		return "u16"
	case TagF16:
		return "f16"
	case TagChar:
		return "char"
	case TagI16:
		return "i16"
	default:
		return "?unknown-tag?"
	}
}

// Word is a tagged 16-bit immediate carried inline in an instruction's
// operand stream. bits holds the raw 16-bit pattern regardless of tag so
// that encode/decode never needs a type switch on storage.
type Word struct {
	Tag  WordTag
	bits uint16
}

func WordFromU16(u uint16) Word  { return Word{Tag: TagU16, bits: u} }
func WordFromI16(i int16) Word   { return Word{Tag: TagI16, bits: uint16(i)} }
func WordFromChar(r rune) Word   { return Word{Tag: TagChar, bits: uint16(r)} }
func WordFromF16(f float16.Float16) Word {
	return Word{Tag: TagF16, bits: uint16(f)}
}

func (w Word) U16() uint16          { return w.bits }
func (w Word) I16() int16           { return int16(w.bits) }
func (w Word) Char() rune           { return rune(w.bits) }
func (w Word) F16() float16.Float16 { return float16.Frombits(w.bits) }
func (w Word) Bits() uint16         { return w.bits }

// AsStackValue lifts a Word into the runtime StackValue it pushes as,
// following the tag (floats and chars are carried as U16 bit patterns on
// the evaluation stack; only U16/I16/Pointer are real stack tags).
func (w Word) AsStackValue() StackValue {
	if w.Tag == TagI16 {
		return SVFromI16(w.I16())
	}
	return SVFromU16(w.bits)
}

// Region names which heap arena a Pointer addresses.
type Region byte

const (
	RegionRaw Region = iota
	RegionCell
)

func (r Region) String() string {
	if r == RegionRaw {
		return "raw"
	}
	return "cell"
}

// StackValueTag is the runtime tag of an evaluation-stack operand.
type StackValueTag byte

const (
	SVU16 StackValueTag = iota
	SVI16
	SVPointer
)

// StackValue is a runtime-tagged operand on the evaluation stack. Unlike
// Word, it has no F16/Char variant: floats and characters only exist as
// Words inside the instruction stream or as raw/cell heap contents.
type StackValue struct {
	Tag    StackValueTag
	Val    uint16 // numeric bits (U16 or I16 two's complement) or pointer address
	Region Region // meaningful only when Tag == SVPointer
}

func SVFromU16(u uint16) StackValue { return StackValue{Tag: SVU16, Val: u} }
func SVFromI16(i int16) StackValue  { return StackValue{Tag: SVI16, Val: uint16(i)} }
func SVFromPointer(addr uint16, region Region) StackValue {
	return StackValue{Tag: SVPointer, Val: addr, Region: region}
}

func (v StackValue) U16() uint16  { return v.Val }
func (v StackValue) I16() int16   { return int16(v.Val) }
func (v StackValue) Addr() uint16 { return v.Val }

// Signed16 coerces any numeric or pointer tag to a signed 16-bit value,
// the comparison rule JMPEQ/JMPNEQ use.
func (v StackValue) Signed16() int16 {
	return int16(v.Val)
}

func (v StackValue) String() string {
	switch v.Tag {
	case SVU16:
		return strconv.Itoa(int(v.Val))
	case SVI16:
		return strconv.Itoa(int(v.I16()))
	case SVPointer:
		return "&" + v.Region.String() + "[" + strconv.Itoa(int(v.Val)) + "]"
	default:
		return "?"
	}
}
