package results

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Metrics is the summary of one benchmark run.
type Metrics struct {
	Label       string
	RPS         float64
	MeanLatency float64
	P99Latency  float64
}

type nodeKind int

const (
	kindOther nodeKind = iota
	kindNumber
	kindObject
	kindArray
)

// node is a decoded JSON value that keeps object keys in document order.
type node struct {
	kind   nodeKind
	num    float64
	keys   []string
	values []*node
	items  []*node
}

func (n *node) get(key string) *node {
	if n == nil || n.kind != kindObject {
		return nil
	}
	for i, k := range n.keys {
		if k == key {
			return n.values[i]
		}
	}
	return nil
}

func (n *node) number() (float64, bool) {
	if n == nil || n.kind != kindNumber {
		return 0, false
	}
	return n.num, true
}

func decode(data []byte) (*node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	root, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return root, nil
}

func decodeValue(dec *json.Decoder) (*node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			n := &node{kind: kindObject}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("expected object key, got %v", keyTok)
				}
				child, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				n.keys = append(n.keys, key)
				n.values = append(n.values, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return n, nil
		case '[':
			n := &node{kind: kindArray}
			for dec.More() {
				child, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				n.items = append(n.items, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return n, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, err
		}
		return &node{kind: kindNumber, num: f}, nil
	default:
		return &node{kind: kindOther}, nil
	}
}

// extraction holds the values found so far; nil means not found yet.
type extraction struct {
	rps, mean, p99 *float64
}

// Extract pulls requests/sec, mean latency and p99 latency out of a
// bombardier JSON report. The documented layout
// {"result":{"rps":{"mean"},"latency":{"mean","p99"|"percentiles":{"99"}}}}
// is tried first; anything still missing is searched for by key name in
// document order. Values that cannot be found are 0.
func Extract(data []byte) (rps, mean, p99 float64, err error) {
	root, err := decode(data)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid report: %w", err)
	}

	var ex extraction
	ex.known(root)
	ex.walk(root, "")

	return deref(ex.rps), deref(ex.mean), deref(ex.p99), nil
}

func (ex *extraction) known(root *node) {
	result := root.get("result")
	if v, ok := result.get("rps").get("mean").number(); ok {
		ex.rps = &v
	}
	latency := result.get("latency")
	if v, ok := latency.get("mean").number(); ok {
		ex.mean = &v
	}
	if v, ok := latency.get("p99").number(); ok {
		ex.p99 = &v
	} else if v, ok := latency.get("percentiles").get("99").number(); ok {
		ex.p99 = &v
	}
}

func (ex *extraction) walk(n *node, path string) {
	switch n.kind {
	case kindObject:
		for i, key := range n.keys {
			child := n.values[i]
			lk := strings.ToLower(key)
			childPath := lk
			if path != "" {
				childPath = path + "." + lk
			}

			v, isNumber := child.number()
			if ex.rps == nil && isNumber && strings.Contains(lk, "rps") {
				ex.rps = &v
			}
			if !isNumber {
				ex.walk(child, childPath)
				continue
			}
			if ex.mean == nil && (strings.Contains(lk, "mean") || strings.Contains(lk, "avg")) &&
				strings.Contains(childPath, "lat") {
				ex.mean = &v
			}
			if ex.p99 == nil && (strings.Contains(lk, "p99") || lk == "99") &&
				(strings.Contains(childPath, "lat") || strings.Contains(childPath, "percentile")) {
				ex.p99 = &v
			}
		}
	case kindArray:
		for _, item := range n.items {
			ex.walk(item, path)
		}
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
