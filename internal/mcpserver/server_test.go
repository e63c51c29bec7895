package mcpserver

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samyuktha-jana/SAP-hackathon/internal/agent"
	"github.com/samyuktha-jana/SAP-hackathon/internal/booking"
	"github.com/samyuktha-jana/SAP-hackathon/internal/config"
	"github.com/samyuktha-jana/SAP-hackathon/internal/logger"
	"github.com/samyuktha-jana/SAP-hackathon/internal/mentor"
	"github.com/samyuktha-jana/SAP-hackathon/internal/testutil"
)

func newToolbox(t *testing.T) *agent.Toolbox {
	db := testutil.NewDB(t)
	testutil.SeedUsers(t, db)
	log := logger.Nop()
	return agent.NewToolbox(
		mentor.NewService(db, nil, config.MentorConfig{}, log),
		booking.NewService(db, filepath.Join(t.TempDir(), "invites"), nil, log),
	)
}

func callReq(name string, args interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestToolFor_SchemaFromDeclarations(t *testing.T) {
	decls := agent.Declarations()
	require.Len(t, decls, 4)

	tool := toolFor(decls[1])
	assert.Equal(t, agent.ToolRequest, tool.Name)
	assert.Equal(t, "object", tool.InputSchema.Type)
	assert.Contains(t, tool.InputSchema.Properties, "mentor_id")
	assert.ElementsMatch(t, []string{"start_utc", "end_utc"}, tool.InputSchema.Required)

	// meetings_in has no required arguments
	assert.Empty(t, toolFor(decls[3]).InputSchema.Required)
}

func TestHandler_SearchAndBook(t *testing.T) {
	tools := newToolbox(t)
	ctx := context.Background()

	res, err := Handler(tools, "cleo@corp.com", agent.ToolSearch)(ctx, callReq(agent.ToolSearch, map[string]interface{}{"query": "Payments"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "ben@corp.com")

	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)
	res, err = Handler(tools, "cleo@corp.com", agent.ToolRequest)(ctx, callReq(agent.ToolRequest, map[string]interface{}{
		"mentor_email": "ben@corp.com",
		"start_utc":    start.Format(time.RFC3339),
		"end_utc":      start.Add(time.Hour).Format(time.RFC3339),
	}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), `"ok":true`)

	res, err = Handler(tools, "ben@corp.com", agent.ToolMeeting)(ctx, callReq(agent.ToolMeeting, nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "**Status:** requested")
}

func TestHandler_Errors(t *testing.T) {
	tools := newToolbox(t)
	ctx := context.Background()

	res, err := Handler(tools, "cleo@corp.com", agent.ToolSearch)(ctx, callReq(agent.ToolSearch, "not-a-map"))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = Handler(tools, "cleo@corp.com", "unknown")(ctx, callReq("unknown", map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "unknown failed")
}

func TestNew_RegistersTools(t *testing.T) {
	s := New(newToolbox(t), "cleo@corp.com")
	assert.NotNil(t, s)
}
