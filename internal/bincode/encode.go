package bincode

import (
	"bytes"
	"encoding/binary"
	"sort"

	"golang.org/x/text/unicode/norm"

	"github.com/msojocs/pigment/internal/css"
)

// Format identification.
const (
	MagicArtifact = "FPBC" // compiled stylesheet
	MagicIndex    = "FPII" // import index
	Version       = 1
)

// Rule kinds in the artifact encoding.
const (
	kindStyleRule = 0
	kindAtRule    = 1
)

// Declaration flags.
const flagImportant = 1 << 0

// EncodeSheet encodes a parsed sheet as a self-contained artifact.
// The encoding is deterministic: the same sheet always yields the same
// bytes, regardless of how it was produced.
func EncodeSheet(name string, sheet *css.Sheet) []byte {
	w := newWriter(MagicArtifact)
	w.str(name)
	w.u32(uint32(len(sheet.Imports)))
	for _, imp := range sheet.Imports {
		w.str(imp)
	}
	w.u32(uint32(len(sheet.Rules)))
	for i := range sheet.Rules {
		w.rule(&sheet.Rules[i])
	}
	return w.bytes()
}

// EncodeImportIndex encodes the per-file import lists. File names are
// sorted so the encoding does not depend on map iteration order; each
// file's import list keeps its source order.
func EncodeImportIndex(files map[string][]string) []byte {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	w := newWriter(MagicIndex)
	w.u32(uint32(len(names)))
	for _, name := range names {
		w.str(name)
		imports := files[name]
		w.u32(uint32(len(imports)))
		for _, imp := range imports {
			w.str(imp)
		}
	}
	return w.bytes()
}

type writer struct {
	buf bytes.Buffer
}

func newWriter(magic string) *writer {
	w := &writer{}
	w.buf.WriteString(magic)
	w.u16(Version)
	return w
}

func (w *writer) bytes() []byte { return w.buf.Bytes() }

func (w *writer) u8(v uint8) { w.buf.WriteByte(v) }

func (w *writer) u16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *writer) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

// str writes a length-prefixed, NFC-normalized string.
func (w *writer) str(s string) {
	n := norm.NFC.String(s)
	w.u32(uint32(len(n)))
	w.buf.WriteString(n)
}

func (w *writer) rule(r *css.Rule) {
	if r.IsAtRule() {
		w.u8(kindAtRule)
		w.str(r.AtKeyword)
		w.str(r.Prelude)
		w.decls(r.Declarations)
		w.u32(uint32(len(r.Children)))
		for i := range r.Children {
			w.rule(&r.Children[i])
		}
		return
	}
	w.u8(kindStyleRule)
	w.u32(uint32(len(r.Selectors)))
	for _, sel := range r.Selectors {
		w.str(sel)
	}
	w.decls(r.Declarations)
}

func (w *writer) decls(decls []css.Declaration) {
	w.u32(uint32(len(decls)))
	for _, d := range decls {
		w.str(d.Property)
		w.str(d.Value)
		var flags uint8
		if d.Important {
			flags |= flagImportant
		}
		w.u8(flags)
	}
}
