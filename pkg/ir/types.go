package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// Node - Exported Node
// =============================================================================

// Params maps parameter names to coerced values. Keys are either generic
// socket names (lowercased, spaces replaced by underscores) or logical names
// chosen by a node handler (a, b, c, operation, stops, ...).
type Params map[string]any

// Has reports whether key is present.
func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Node is one exported node of the IR.
type Node struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Class   string   `json:"class"`
	Inputs  []string `json:"inputs"`
	Outputs []string `json:"outputs"`
	Params  Params   `json:"params,omitempty"`
	// Mode is the raw vector type of mapping nodes.
	Mode string `json:"mode,omitempty"`
}

// =============================================================================
// Link - Renumbered Connection
// =============================================================================

// Link connects output OutIndex of node From to input InIndex of node To.
// On the wire it is a single comma-joined string: "from,out,to,in".
type Link struct {
	From     string
	OutIndex int
	To       string
	InIndex  int
}

// String returns the wire form of the link.
func (l Link) String() string {
	return l.From + "," + strconv.Itoa(l.OutIndex) + "," + l.To + "," + strconv.Itoa(l.InIndex)
}

// MarshalText implements encoding.TextMarshaler.
func (l Link) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Link) UnmarshalText(b []byte) error {
	parsed, err := ParseLink(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLink decodes the wire form produced by [Link.String].
func ParseLink(s string) (Link, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Link{}, fmt.Errorf("link %q: want 4 comma-separated fields, got %d", s, len(parts))
	}
	out, err := strconv.Atoi(parts[1])
	if err != nil {
		return Link{}, fmt.Errorf("link %q: output index: %w", s, err)
	}
	in, err := strconv.Atoi(parts[3])
	if err != nil {
		return Link{}, fmt.Errorf("link %q: input index: %w", s, err)
	}
	return Link{From: parts[0], OutIndex: out, To: parts[2], InIndex: in}, nil
}

// =============================================================================
// Result - Translation Output
// =============================================================================

// Result is the IR of one material. A fresh Result is built per request.
type Result struct {
	Material string `json:"material"`
	Nodes    []Node `json:"nodes"`
	Links    []Link `json:"links"`
}

// Node returns the node with the given id, or nil.
func (r *Result) Node(id string) *Node {
	for i := range r.Nodes {
		if r.Nodes[i].ID == id {
			return &r.Nodes[i]
		}
	}
	return nil
}

// Payload is either a Result or an error message. Callers discriminate on
// the presence of the "error" key in the JSON form.
type Payload struct {
	Result *Result
	Error  string
}

// ErrorPayload creates a payload carrying only an error message.
func ErrorPayload(msg string) Payload {
	return Payload{Error: msg}
}

// OK reports whether the payload carries a result.
func (p Payload) OK() bool {
	return p.Error == "" && p.Result != nil
}

// MarshalJSON encodes either {"error": ...} or the result object.
func (p Payload) MarshalJSON() ([]byte, error) {
	if !p.OK() {
		msg := p.Error
		if msg == "" {
			msg = "unknown"
		}
		return marshalRaw(struct {
			Error string `json:"error"`
		}{msg})
	}
	return marshalRaw(p.Result)
}

// marshalRaw encodes v without HTML escaping so names reach the engine verbatim.
func marshalRaw(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON decodes either payload shape.
func (p *Payload) UnmarshalJSON(b []byte) error {
	var probe struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return err
	}
	if probe.Error != nil {
		*p = Payload{Error: *probe.Error}
		return nil
	}
	var r Result
	if err := json.Unmarshal(b, &r); err != nil {
		return err
	}
	*p = Payload{Result: &r}
	return nil
}
