package models

import (
	"bytes"
	"encoding/json"
)

// Fixed payload values served on /json.
const (
	FrameworkMessage = "Hello from .NET JIT"
	RawMessage       = "Hello from Node"
	StdlibMessage    = "Hello from Go"
	RouterMessage    = "Hello from Rust (axum)"
	FixedValue       = 42
)

// JSONResponse is the body returned by the /json route
type JSONResponse struct {
	Message string `json:"message"`
	Value   int    `json:"value"`
}

// NewJSONResponse creates the fixed payload for the given greeting
func NewJSONResponse(message string) JSONResponse {
	return JSONResponse{Message: message, Value: FixedValue}
}

// Encode returns the compact JSON form, without a trailing newline.
func (r JSONResponse) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// EncodeLine returns the json.Encoder form: compact JSON followed by a newline.
func (r JSONResponse) EncodeLine() ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
