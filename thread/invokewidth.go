package thread

// Invoke opcode widths (spec.md section 6): invokeinterface and its
// variants occupy 5 bytes including operands; every other invoke family
// (invokespecial/static/virtual/dynamic, method handle, basic, linkTo*)
// occupies 3. This table is data the external opcode table is expected to
// agree with; it is not bytecode semantics, only the width schedule_resume
// needs to skip past the call site.
var invokeOpcodeWidths = map[uint8]int{
	opInvokeVirtual:   3,
	opInvokeSpecial:   3,
	opInvokeStatic:    3,
	opInvokeInterface: 5,
	opInvokeDynamic:   3,
}

// These constants mirror the standard JVM opcode values for the invoke
// family; corevm does not implement opcode semantics, but schedule_resume
// still needs to recognise the call site it is skipping past.
const (
	opInvokeVirtual   uint8 = 182
	opInvokeSpecial   uint8 = 183
	opInvokeStatic    uint8 = 184
	opInvokeInterface uint8 = 185
	opInvokeDynamic   uint8 = 186
)

// invokeWidthAt reports the byte width of the invoke instruction at pc, if
// any. Returns ok=false when the opcode at pc is not a recognised invoke,
// which is a fatal invariant violation per spec.md section 4.2.
func invokeWidthAt(code []byte, pc int) (width int, ok bool) {
	if pc < 0 || pc >= len(code) {
		return 0, false
	}
	width, ok = invokeOpcodeWidths[code[pc]]
	return width, ok
}
