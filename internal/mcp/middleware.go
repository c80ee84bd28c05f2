package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const sessionHeader = "Mcp-Session-Id"

type sessionKey struct{}

func sessionFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// sessionMiddleware tags each request with the client session: the
// streamable HTTP header when present, else _meta.session_id from stdio
// clients.
func sessionMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if id := resolveSession(req); id != "" {
				ctx = context.WithValue(ctx, sessionKey{}, id)
			}
			return next(ctx, method, req)
		}
	}
}

func resolveSession(req sdkmcp.Request) string {
	if req == nil {
		return ""
	}
	if extra := req.GetExtra(); extra != nil && extra.Header != nil {
		if id := extra.Header.Get(sessionHeader); id != "" {
			return id
		}
	}
	return metaString(req, "session_id")
}

// metaString reads a string field from the request's _meta. Notifications
// carry typed-nil params whose accessors panic; those read as "".
func metaString(req sdkmcp.Request, key string) (value string) {
	defer func() {
		if recover() != nil {
			value = ""
		}
	}()
	params := req.GetParams()
	if params == nil {
		return ""
	}
	value, _ = params.GetMeta()[key].(string)
	return value
}
