package classfile

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// classBuilder assembles raw .class bytes field by field, mirroring the
// layout ClassReader consumes, so Parse is exercised against real encoded
// bytes rather than hand-built struct literals.
type classBuilder struct {
	buf bytes.Buffer
}

func (b *classBuilder) u2(v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	b.buf.Write(tmp[:])
}

func (b *classBuilder) u4(v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	b.buf.Write(tmp[:])
}

func (b *classBuilder) rawBytes(v []byte) { b.buf.Write(v) }

func (b *classBuilder) utf8(s string) {
	b.buf.WriteByte(CONSTANT_Utf8)
	b.u2(uint16(len(s)))
	b.buf.WriteString(s)
}

func (b *classBuilder) classRef(nameIndex uint16) {
	b.buf.WriteByte(CONSTANT_Class)
	b.u2(nameIndex)
}

// buildCodeInfo assembles a Code attribute body: a 3-byte dummy method body
// and a single exception handler catching catchTypeIndex.
func buildCodeInfo(catchTypeIndex uint16) []byte {
	var b classBuilder
	b.u2(2) // max_stack
	b.u2(2) // max_locals
	code := []byte{0xB1, 0x00, 0x00}
	b.u4(uint32(len(code)))
	b.rawBytes(code)
	b.u2(1) // exception_table_length
	b.u2(0) // start_pc
	b.u2(3) // end_pc
	b.u2(1) // handler_pc
	b.u2(catchTypeIndex)
	b.u2(0) // attributes_count
	return b.buf.Bytes()
}

// buildDemoClass assembles a complete minimal .class byte stream: class
// com/example/Demo extends java/lang/Object, declaring one synchronized
// method doIt(I)J with a Code attribute and one exception handler catching
// java/lang/Exception. Every field is written through Parse's own reverse
// operations (u2/u4/utf8/classRef), so a layout mistake here would show up
// as a Parse failure rather than being silently self-consistent.
func buildDemoClass() []byte {
	var b classBuilder
	b.u4(0xCAFEBABE)
	b.u2(0)  // minor
	b.u2(52) // major

	b.u2(10)                      // constant_pool_count (entries 1-9)
	b.utf8("com/example/Demo")    // 1
	b.classRef(1)                 // 2: this class
	b.utf8("java/lang/Object")    // 3
	b.classRef(3)                 // 4: super class
	b.utf8("doIt")                // 5
	b.utf8("(I)J")                // 6
	b.utf8("java/lang/Exception") // 7
	b.classRef(7)                 // 8: catch type
	b.utf8("Code")                // 9

	b.u2(AccPublic) // access_flags
	b.u2(2)         // this_class
	b.u2(4)         // super_class
	b.u2(0)         // interfaces_count

	b.u2(0) // fields_count

	b.u2(1)               // methods_count
	b.u2(AccSynchronized) // method access_flags
	b.u2(5)               // name_index -> doIt
	b.u2(6)               // descriptor_index -> (I)J
	b.u2(1)               // attributes_count
	codeInfo := buildCodeInfo(8)
	b.u2(9) // attribute_name_index -> Code
	b.u4(uint32(len(codeInfo)))
	b.rawBytes(codeInfo)

	b.u2(0) // class attributes_count

	return b.buf.Bytes()
}

func TestParseEndToEnd(t *testing.T) {
	cf, err := Parse(buildDemoClass())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cf.ClassName() != "com/example/Demo" {
		t.Errorf("ClassName() = %q, want com/example/Demo", cf.ClassName())
	}
	if cf.SuperClassName() != "java/lang/Object" {
		t.Errorf("SuperClassName() = %q, want java/lang/Object", cf.SuperClassName())
	}
	if cf.IsInterface() {
		t.Error("expected IsInterface() false")
	}

	method := cf.GetMethod("doIt", "(I)J")
	if method == nil {
		t.Fatal("GetMethod(doIt, (I)J) returned nil")
	}
	if !method.IsSynchronized() {
		t.Error("expected doIt to be synchronized")
	}
	if method.Name(cf.ConstantPool) != "doIt" {
		t.Errorf("Name() = %q, want doIt", method.Name(cf.ConstantPool))
	}

	code := method.GetCodeAttribute(cf.ConstantPool)
	if code == nil {
		t.Fatal("expected a Code attribute")
	}
	if code.MaxStack != 2 || code.MaxLocals != 2 {
		t.Errorf("MaxStack/MaxLocals = %d/%d, want 2/2", code.MaxStack, code.MaxLocals)
	}
	if len(code.ExceptionTable) != 1 {
		t.Fatalf("len(ExceptionTable) = %d, want 1", len(code.ExceptionTable))
	}
	if got := cf.ConstantPool.GetClassName(code.ExceptionTable[0].CatchType); got != "java/lang/Exception" {
		t.Errorf("catch type = %q, want java/lang/Exception", got)
	}
}

func TestParseRejectsBadMagic(t *testing.T) {
	data := buildDemoClass()
	data[0] = 0x00
	if _, err := Parse(data); err == nil {
		t.Fatal("expected Parse to reject a bad magic number")
	}
}

func TestParseFileMissing(t *testing.T) {
	if _, err := ParseFile("/nonexistent/path/Demo.class"); err == nil {
		t.Fatal("expected ParseFile to report an error for a missing file")
	}
}

// TestParseThenAdapt closes the loop from raw bytes through to the
// thread-facing MethodHandle/CodeAttributeHandle adapter, proving the
// byte-parsing pipeline feeds a real consumer rather than ending at Parse.
func TestParseThenAdapt(t *testing.T) {
	cf, err := Parse(buildDemoClass())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	method := cf.GetMethod("doIt", "")
	if method == nil {
		t.Fatal("GetMethod(doIt) returned nil")
	}

	h := NewMethodHandle(cf, method, nil, nil, nil)
	if h.Name() != "doIt" || h.Descriptor() != "(I)J" || h.ReturnDescriptor() != "J" {
		t.Errorf("MethodHandle accessors = (%q, %q, %q), want (doIt, (I)J, J)", h.Name(), h.Descriptor(), h.ReturnDescriptor())
	}
	if !h.IsSynchronized() {
		t.Error("expected IsSynchronized() true")
	}

	attr, ok := h.CodeAttribute()
	if !ok {
		t.Fatal("expected a Code attribute through the adapter")
	}
	table := attr.ExceptionTable()
	if len(table) != 1 || table[0].CatchType != "java/lang/Exception" {
		t.Errorf("adapter ExceptionTable = %+v, want one entry catching java/lang/Exception", table)
	}
}
