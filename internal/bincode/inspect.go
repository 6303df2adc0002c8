package bincode

import (
	"encoding/binary"
	"fmt"
)

// ArtifactInfo is the header-level summary of an encoded artifact.
type ArtifactInfo struct {
	Name      string   `json:"name"`
	Version   uint16   `json:"version"`
	Imports   []string `json:"imports,omitempty"`
	RuleCount int      `json:"rule_count"`
	Hash      string   `json:"hash"`
}

// IndexEntry is one file's row in a decoded import index.
type IndexEntry struct {
	Name    string   `json:"name"`
	Imports []string `json:"imports,omitempty"`
}

// IndexInfo is a fully decoded import index.
type IndexInfo struct {
	Version uint16       `json:"version"`
	Files   []IndexEntry `json:"files"`
}

// Kind reports which encoding the data carries: "artifact" or
// "import-index".
func Kind(data []byte) (string, error) {
	if len(data) < 6 {
		return "", fmt.Errorf("bincode: data too short (%d bytes)", len(data))
	}
	switch string(data[:4]) {
	case MagicArtifact:
		return "artifact", nil
	case MagicIndex:
		return "import-index", nil
	}
	return "", fmt.Errorf("bincode: unrecognized magic %q", data[:4])
}

// InspectArtifact decodes the header, name, imports and rule count of an
// encoded artifact. Rule bodies are not decoded.
func InspectArtifact(data []byte) (*ArtifactInfo, error) {
	r, err := newReader(data, MagicArtifact)
	if err != nil {
		return nil, err
	}
	info := &ArtifactInfo{Version: r.version, Hash: ArtifactHash(data)}
	if info.Name, err = r.str(); err != nil {
		return nil, err
	}
	count, err := r.u32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < count; i++ {
		imp, err := r.str()
		if err != nil {
			return nil, err
		}
		info.Imports = append(info.Imports, imp)
	}
	rules, err := r.u32()
	if err != nil {
		return nil, err
	}
	info.RuleCount = int(rules)
	return info, nil
}

// InspectIndex decodes an encoded import index.
func InspectIndex(data []byte) (*IndexInfo, error) {
	r, err := newReader(data, MagicIndex)
	if err != nil {
		return nil, err
	}
	info := &IndexInfo{Version: r.version}
	count, err := r.u32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < count; i++ {
		var entry IndexEntry
		if entry.Name, err = r.str(); err != nil {
			return nil, err
		}
		imports, err := r.u32()
		if err != nil {
			return nil, err
		}
		for j := uint32(0); j < imports; j++ {
			imp, err := r.str()
			if err != nil {
				return nil, err
			}
			entry.Imports = append(entry.Imports, imp)
		}
		info.Files = append(info.Files, entry)
	}
	return info, nil
}

type reader struct {
	data    []byte
	pos     int
	version uint16
}

func newReader(data []byte, magic string) (*reader, error) {
	if len(data) < 6 {
		return nil, fmt.Errorf("bincode: data too short (%d bytes)", len(data))
	}
	if string(data[:4]) != magic {
		return nil, fmt.Errorf("bincode: expected magic %q, got %q", magic, data[:4])
	}
	version := binary.LittleEndian.Uint16(data[4:6])
	if version != Version {
		return nil, fmt.Errorf("bincode: unsupported version %d", version)
	}
	return &reader{data: data, pos: 6, version: version}, nil
}

func (r *reader) u32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("bincode: truncated at offset %d", r.pos)
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *reader) str() (string, error) {
	n, err := r.u32()
	if err != nil {
		return "", err
	}
	if r.pos+int(n) > len(r.data) {
		return "", fmt.Errorf("bincode: truncated string at offset %d", r.pos)
	}
	s := string(r.data[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}
