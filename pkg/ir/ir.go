// Package ir defines the JSON intermediate representation consumed by the
// game engine's node modules.
//
// A [Result] holds the material name, the exported [Node] list (source
// order) and the [Link] list (source order, minus dropped links). Links
// travel as compact "from,out,to,in" strings.
//
// # Usage
//
//	data, err := ir.Marshal(ir.Payload{Result: res})
//
//	p, err := ir.ReadPayload(r)
//	if !p.OK() {
//	    // p.Error carries the host's reason
//	}
package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Marshal encodes a payload as compact UTF-8 JSON without HTML escaping.
func Marshal(p Payload) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(p, &buf, false); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Write encodes p to w, optionally indented for humans.
func Write(p Payload, w io.Writer, indent bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadPayload decodes a payload from r.
func ReadPayload(r io.Reader) (Payload, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Payload{}, fmt.Errorf("decode: %w", err)
	}
	return p, nil
}

// ReadPayloadFile decodes the payload stored at path.
func ReadPayloadFile(path string) (Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		return Payload{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadPayload(f)
}
