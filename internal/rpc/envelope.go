// Package rpc implements the JSON-RPC 2.0 style request dispatcher shared by
// both transports. A dispatcher is transport-agnostic: bytes in, bytes out.
package rpc

import "fmt"

// Version is the protocol tag every envelope must carry.
const Version = "2.0"

// Error codes on the wire. The table is part of the protocol contract with
// existing clients and must not change.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeNotFound       = -32601
	CodeHandlerError   = -32602
	CodeInternalError  = -32603
)

// ErrorObject is the error member of a failed response.
type ErrorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Response is a single response envelope. ID is always serialized, null when
// the request carried none or could not be parsed.
type Response struct {
	Jsonrpc string       `json:"jsonrpc"`
	Result  any          `json:"result,omitempty"`
	Error   *ErrorObject `json:"error,omitempty"`
	ID      any          `json:"id"`
}

func successResponse(id, result any) Response {
	return Response{Jsonrpc: Version, Result: result, ID: id}
}

func errorResponse(id any, code int, message string, data any) Response {
	return Response{
		Jsonrpc: Version,
		Error:   &ErrorObject{Code: code, Message: message, Data: data},
		ID:      id,
	}
}

// InternalError marks a handler failure that must surface as code -32603
// (unexpected fault, typically persistence I/O) instead of the ordinary
// handler-error code. Silently returning defaults on store failures would
// mask data loss, so stores raise and handlers wrap.
type InternalError struct {
	Err error
}

func (e *InternalError) Error() string { return e.Err.Error() }
func (e *InternalError) Unwrap() error { return e.Err }

func internalf(format string, args ...any) error {
	return &InternalError{Err: fmt.Errorf(format, args...)}
}
