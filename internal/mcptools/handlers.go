package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dmitriimaksimovdevelop/pentagram/internal/pentagram"
)

// processExperienceTimeout bounds one full Pentagram cycle, including any
// LM calls the vertices make.
const processExperienceTimeout = 2 * time.Minute

func handleProcessExperience(svc *Service) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, cancel := context.WithTimeout(ctx, processExperienceTimeout)
		defer cancel()

		args := getArgs(request)
		message := stringArg(args, "message", "")
		if message == "" {
			return errResult("message is required"), nil
		}

		experience := pentagram.Experience{
			Message:      message,
			UserID:       stringArg(args, "user_id", ""),
			GroupID:      stringArg(args, "group_id", ""),
			RetrieveTopK: intArg(args, "retrieve_top_k", 5),
		}

		result := svc.ProcessExperience(ctx, experience)
		return jsonResult(result)
	}
}

func handleCheckDrift(svc *Service) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(svc.CheckDrift())
	}
}

func handleDevelopmentLevel(svc *Service) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(svc.DevelopmentLevel())
	}
}

func handleProposeIdentityChange(svc *Service) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := getArgs(request)

		region := stringArg(args, "region", "")
		newValue := stringArg(args, "new_value", "")
		if region == "" || newValue == "" {
			return errResult("region and new_value are required"), nil
		}

		proposal := pentagram.ProposedChange{
			Region:          region,
			Field:           stringArg(args, "field", ""),
			OldValue:        stringArg(args, "old_value", ""),
			NewValue:        newValue,
			Evidence:        stringArg(args, "evidence", ""),
			ProposingVertex: pentagram.VertexName(stringArg(args, "proposing_vertex", "")),
			Confidence:      floatArg(args, "confidence", 0.5),
			Timestamp:       time.Now().UTC(),
		}

		result := svc.ProposeIdentityChange(proposal)
		return jsonResult(result)
	}
}

// getArgs safely extracts the arguments map from a CallToolRequest.
func getArgs(request mcp.CallToolRequest) map[string]interface{} {
	if request.Params.Arguments == nil {
		return map[string]interface{}{}
	}
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return args
}

func stringArg(args map[string]interface{}, key, defaultVal string) string {
	val, ok := args[key]
	if !ok || val == nil {
		return defaultVal
	}
	s, ok := val.(string)
	if !ok || s == "" {
		return defaultVal
	}
	return s
}

func intArg(args map[string]interface{}, key string, defaultVal int) int {
	val, ok := args[key]
	if !ok || val == nil {
		return defaultVal
	}
	f, ok := val.(float64)
	if !ok {
		return defaultVal
	}
	return int(f)
}

func floatArg(args map[string]interface{}, key string, defaultVal float64) float64 {
	val, ok := args[key]
	if !ok || val == nil {
		return defaultVal
	}
	f, ok := val.(float64)
	if !ok {
		return defaultVal
	}
	return f
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errResult(fmt.Sprintf("json marshal failed: %v", err)), nil
	}
	return newTextResult(string(data)), nil
}

func newTextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func errResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
	}
}
