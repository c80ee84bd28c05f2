package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// maxLoggedPayload caps each logged payload; trip lists get large.
const maxLoggedPayload = 2048

// trafficLogger writes one debug line per MCP exchange. Tool calls are
// tagged with the tool name and whether the tool reported an error.
type trafficLogger struct {
	logger    *slog.Logger
	direction string
}

func trafficLoggingMiddleware(logger *slog.Logger, direction string) sdkmcp.Middleware {
	tl := &trafficLogger{logger: logger, direction: direction}
	return tl.wrap
}

func (tl *trafficLogger) wrap(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
	return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
		if tl.logger == nil || !tl.logger.Enabled(ctx, slog.LevelDebug) {
			return next(ctx, method, req)
		}

		started := time.Now()
		result, err := next(ctx, method, req)
		if strings.HasPrefix(method, "notifications/") {
			return result, err
		}

		params := requestParams(req)
		attrs := []any{
			"direction", tl.direction,
			"method", method,
			"session_id", tl.session(ctx, req),
			"duration", time.Since(started),
			"params", formatPayload(params),
		}
		if method == "tools/call" {
			attrs = append(attrs, "tool", toolName(params))
		}
		if res, ok := result.(*sdkmcp.CallToolResult); ok && res != nil {
			attrs = append(attrs, "tool_error", res.IsError)
		}
		if err != nil {
			attrs = append(attrs, "error", err)
		} else {
			attrs = append(attrs, "result", formatPayload(result))
		}
		tl.logger.Debug("mcp traffic", attrs...)
		return result, err
	}
}

func (tl *trafficLogger) session(ctx context.Context, req sdkmcp.Request) string {
	if id := sessionFrom(ctx); id != "" {
		return id
	}
	return transportSessionID(req)
}

// transportSessionID falls back to the SDK session, which is unset for
// some sending-side requests.
func transportSessionID(req sdkmcp.Request) (id string) {
	defer func() {
		if recover() != nil {
			id = ""
		}
	}()
	if req == nil || req.GetSession() == nil {
		return ""
	}
	return req.GetSession().ID()
}

func requestParams(req sdkmcp.Request) (params any) {
	defer func() {
		if recover() != nil {
			params = nil
		}
	}()
	if req == nil {
		return nil
	}
	return req.GetParams()
}

func toolName(params any) string {
	var call struct {
		Name string `json:"name"`
	}
	data, err := json.Marshal(params)
	if err != nil || json.Unmarshal(data, &call) != nil {
		return ""
	}
	return call.Name
}

func formatPayload(payload any) string {
	if payload == nil {
		return "<nil>"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%T", payload)
	}
	if len(data) > maxLoggedPayload {
		return fmt.Sprintf("%s...(%d bytes)", data[:maxLoggedPayload], len(data))
	}
	return string(data)
}
