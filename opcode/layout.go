// Package opcode holds the data contract spec.md section 6 requires of an
// external opcode dispatch table: per-opcode disassembly layout metadata
// and the invoke-family byte widths. It deliberately does not implement
// bytecode opcode semantics (spec.md section 1, explicitly out of scope);
// DemoTable (table.go) is a minimal demo dispatch table, just enough to run
// cmd/corevmdemo's BIPUSH/IRETURN method body; its invoke opcodes delegate
// to a caller-supplied NativeInvoker.
package opcode

// Layout is the disassembly-only layout tag of spec.md section 6. It drives
// nothing at runtime in this core; a disassembler uses it to know how many
// operand bytes follow an opcode and how to interpret them.
type Layout int8

const (
	LayoutOpcodeOnly Layout = iota
	LayoutConstantPool
	LayoutConstantPoolUint8
	LayoutConstantPoolAndUint8Value
	LayoutUint8Value
	LayoutUint8AndInt8Value
	LayoutInt8Value
	LayoutInt16Value
	LayoutInt32Value
	LayoutArrayType
	LayoutWide
)

// demoLayouts is a small demo table covering only the opcodes DemoTable
// dispatches plus invokeinterface; a full JVM opcode table would populate
// all 256 entries.
var demoLayouts = map[uint8]Layout{
	OpNop:             LayoutOpcodeOnly,
	OpIConstM1:        LayoutOpcodeOnly,
	OpBiPush:          LayoutInt8Value,
	OpSiPush:          LayoutInt16Value,
	OpInvokeStatic:    LayoutConstantPool,
	OpInvokeVirtual:   LayoutConstantPool,
	OpInvokeSpecial:   LayoutConstantPool,
	OpInvokeInterface: LayoutConstantPoolAndUint8Value,
	OpReturn:          LayoutOpcodeOnly,
	OpAReturn:         LayoutOpcodeOnly,
	OpIReturn:         LayoutOpcodeOnly,
	OpAThrow:          LayoutOpcodeOnly,
}

// LayoutOf reports the disassembly layout of opcode, if known.
func LayoutOf(op uint8) (Layout, bool) {
	l, ok := demoLayouts[op]
	return l, ok
}

// Invoke opcode widths (spec.md section 6): invokeinterface and its
// variants are 5 bytes; every other invoke family is 3.
const (
	InvokeInterfaceWidth = 5
	OrdinaryInvokeWidth  = 3
)

// WidthOf reports the byte width schedule_resume must skip past for an
// invoke opcode.
func WidthOf(op uint8) (width int, ok bool) {
	switch op {
	case OpInvokeInterface:
		return InvokeInterfaceWidth, true
	case OpInvokeVirtual, OpInvokeSpecial, OpInvokeStatic, OpInvokeDynamic:
		return OrdinaryInvokeWidth, true
	default:
		return 0, false
	}
}
