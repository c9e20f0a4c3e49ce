package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
)

type (
	// HandlerFunc executes a named method with its by-name parameters.
	HandlerFunc func(ctx context.Context, params map[string]any) (any, error)

	// ResourceFunc serves a read-only, parameterless resource.
	ResourceFunc func(ctx context.Context) (any, error)
)

// Dispatcher validates envelopes, routes them to the method registry or the
// resource table, and encodes uniform responses. The registry is fixed at
// construction; there is no runtime registration.
type Dispatcher struct {
	methods   map[string]HandlerFunc
	resources map[string]ResourceFunc
}

// Dispatch processes one input frame (a single envelope or a batch) and
// returns the encoded response bytes. A nil return means the frame produced
// no output: a batch whose entries were all notifications.
func (d *Dispatcher) Dispatch(ctx context.Context, data []byte) []byte {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return mustMarshal(errorResponse(nil, CodeParseError, fmt.Sprintf("parse error: %v", err), nil))
	}

	switch req := parsed.(type) {
	case []any:
		responses := make([]Response, 0, len(req))
		for _, entry := range req {
			obj, ok := entry.(map[string]any)
			if !ok {
				// Non-object batch entries carry no identifier and
				// therefore produce no response entry.
				continue
			}
			resp := d.handle(ctx, obj)
			if _, hasID := obj["id"]; hasID {
				responses = append(responses, resp)
			}
		}
		if len(responses) == 0 {
			return nil
		}
		return mustMarshal(responses)
	case map[string]any:
		return mustMarshal(d.handle(ctx, req))
	default:
		return mustMarshal(errorResponse(nil, CodeInvalidRequest, "request must be an object or an array of objects", nil))
	}
}

// handle runs a single envelope to completion: validate, route, execute,
// respond. Every failure becomes an error envelope; nothing propagates.
func (d *Dispatcher) handle(ctx context.Context, req map[string]any) Response {
	id := req["id"]

	if tag, ok := req["jsonrpc"].(string); !ok || tag != Version {
		return errorResponse(id, CodeInvalidRequest, "invalid JSON-RPC request", nil)
	}

	if rawMethod, ok := req["method"]; ok {
		name, _ := rawMethod.(string)
		handler, ok := d.methods[name]
		if !ok {
			return errorResponse(id, CodeNotFound, fmt.Sprintf("method '%v' not found", rawMethod), nil)
		}
		params, err := extractParams(req)
		if err != nil {
			return handlerErrorResponse(id, "method execution error", err)
		}
		result, err := d.invoke(ctx, name, handler, params)
		if err != nil {
			return handlerErrorResponse(id, "method execution error", err)
		}
		return successResponse(id, result)
	}

	if rawResource, ok := req["resource"]; ok {
		name, _ := rawResource.(string)
		resource, ok := d.resources[name]
		if !ok {
			return errorResponse(id, CodeNotFound, fmt.Sprintf("resource '%v' not found", rawResource), nil)
		}
		result, err := resource(ctx)
		if err != nil {
			return handlerErrorResponse(id, "resource access error", err)
		}
		return successResponse(id, result)
	}

	return errorResponse(id, CodeInvalidRequest, "request must contain a method or resource field", nil)
}

// invoke shields the dispatcher from handler panics. The recovered stack goes
// into the error data field so clients get the diagnostic without the process
// dying mid-request.
func (d *Dispatcher) invoke(ctx context.Context, name string, handler HandlerFunc, params map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "Handler panicked", "method", name, "panic", r)
			err = &panicError{value: r, stack: string(debug.Stack())}
		}
	}()
	return handler(ctx, params)
}

type panicError struct {
	value any
	stack string
}

func (e *panicError) Error() string { return fmt.Sprintf("panic: %v", e.value) }

func handlerErrorResponse(id any, prefix string, err error) Response {
	var data any
	var pe *panicError
	if errors.As(err, &pe) {
		data = pe.stack
	}
	var ie *InternalError
	if errors.As(err, &ie) {
		return errorResponse(id, CodeInternalError, fmt.Sprintf("internal error: %v", ie.Err), data)
	}
	return errorResponse(id, CodeHandlerError, fmt.Sprintf("%s: %v", prefix, err), data)
}

func extractParams(req map[string]any) (map[string]any, error) {
	raw, ok := req["params"]
	if !ok || raw == nil {
		return map[string]any{}, nil
	}
	params, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.New("params must be an object")
	}
	return params, nil
}

// mustMarshal encodes a response. Responses are built from JSON-safe values
// only, so an encode failure is a programming error; it degrades to a static
// internal-error frame rather than dropping the response.
func mustMarshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to encode response", "error", err)
		return []byte(`{"jsonrpc":"2.0","error":{"code":-32603,"message":"internal error: response encoding failed"},"id":null}`)
	}
	return data
}
