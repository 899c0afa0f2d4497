// Package guesttest assembles tiny capability bundles for tests. Modules
// are encoded section by section per the core wasm spec: type(1),
// function(3), memory(5), global(6), export(7), code(10).
package guesttest

// uleb encodes an unsigned LEB128 value.
func uleb(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			return out
		}
	}
}

func section(id byte, body []byte) []byte {
	out := []byte{id}
	out = append(out, uleb(uint32(len(body)))...)
	return append(out, body...)
}

func exportEntry(name string, kind byte, index uint32) []byte {
	out := uleb(uint32(len(name)))
	out = append(out, name...)
	out = append(out, kind)
	return append(out, uleb(index)...)
}

func funcBody(localDecls, instrs []byte) []byte {
	body := append(append([]byte{}, localDecls...), instrs...)
	out := uleb(uint32(len(body)))
	return append(out, body...)
}

// allocBody is a bump allocator over a mutable global heap pointer:
// returns the current pointer and advances it by size.
var allocBody = funcBody(
	[]byte{0x01, 0x01, 0x7f}, // one extra i32 local
	[]byte{
		0x23, 0x00, // global.get 0
		0x21, 0x01, // local.set 1
		0x23, 0x00, // global.get 0
		0x20, 0x00, // local.get 0 (size)
		0x6a,       // i32.add
		0x24, 0x00, // global.set 0
		0x20, 0x01, // local.get 1
		0x0b, // end
	},
)

// echoRender returns its input region packed as ptr<<32|len, so the host
// lifts back exactly the descriptor JSON it lowered.
var echoRender = []byte{
	0x20, 0x00, // local.get 0 (ptr)
	0xad,       // i64.extend_i32_u
	0x42, 0x20, // i64.const 32
	0x86,       // i64.shl
	0x20, 0x01, // local.get 1 (len)
	0xad, // i64.extend_i32_u
	0x84, // i64.or
	0x0b, // end
}

var trapRender = []byte{
	0x00, // unreachable
	0x0b, // end
}

// build assembles a guest module with the given render body, optionally
// omitting the render export.
func build(renderInstrs []byte, exportRender bool) []byte {
	mod := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	// t0: render (i32,i32)->i64, t1: alloc (i32)->i32
	types := append(uleb(2),
		0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7e,
		0x60, 0x01, 0x7f, 0x01, 0x7f)
	mod = append(mod, section(0x01, types)...)

	funcs := append(uleb(2), append(uleb(0), uleb(1)...)...)
	mod = append(mod, section(0x03, funcs)...)

	// one memory, min 1 page
	mod = append(mod, section(0x05, []byte{0x01, 0x00, 0x01})...)

	// mutable i32 heap pointer initialized to 4096
	mod = append(mod, section(0x06, []byte{0x01, 0x7f, 0x01, 0x41, 0x80, 0x20, 0x0b})...)

	var exports []byte
	if exportRender {
		exports = uleb(3)
		exports = append(exports, exportEntry("memory", 0x02, 0)...)
		exports = append(exports, exportEntry("render", 0x00, 0)...)
		exports = append(exports, exportEntry("alloc", 0x00, 1)...)
	} else {
		exports = uleb(2)
		exports = append(exports, exportEntry("memory", 0x02, 0)...)
		exports = append(exports, exportEntry("alloc", 0x00, 1)...)
	}
	mod = append(mod, section(0x07, exports)...)

	code := uleb(2)
	code = append(code, funcBody(uleb(0), renderInstrs)...)
	code = append(code, allocBody...)
	return append(mod, section(0x0a, code)...)
}

// EchoModule builds a guest whose render echoes the lowered descriptor
// JSON back as its markup.
func EchoModule() []byte {
	return build(echoRender, true)
}

// TrapModule builds a guest whose render traps immediately.
func TrapModule() []byte {
	return build(trapRender, true)
}

// NoRenderModule builds a guest that lacks the render export.
func NoRenderModule() []byte {
	return build(echoRender, false)
}
