package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Preethiroja/StudyVault-MERN/collab/room"
	"github.com/Preethiroja/StudyVault-MERN/collab/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"StudyVault Collaboration Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`StudyVault Collaboration Server - MCP Interface

This is a thin client that proxies all requests to the REST API server.

The server orchestrates real-time study sessions: online presence, shared
rooms, chat/whiteboard relay and pairing invites. All tools are read-only
observations of the live state; session state is mutated only by clients over
the WebSocket protocol.

AVAILABLE TOOLS:
- list_online_users: Who is currently online (deduplicated display names)
- list_rooms: Live rooms with kind (public/chat/whiteboard) and member count
- room_members: Members of a specific room
- server_stats: Aggregate connection/room counters`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_online_users",
		Description: "List the display names of all currently connected users",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListOnlineUsers)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_rooms",
		Description: "List live rooms with their kind and member count",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"kind": map[string]interface{}{
					"type":        "string",
					"description": "Filter by room kind: public, chat or whiteboard (optional)",
				},
			},
		},
	}, c.handleListRooms)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "room_members",
		Description: "List the members of a specific room",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"room_id": map[string]interface{}{
					"type":        "string",
					"description": "Room identifier",
				},
			},
			Required: []string{"room_id"},
		},
	}, c.handleRoomMembers)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "server_stats",
		Description: "Aggregate counters: connections, online users, rooms",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleServerStats)
}

// GetMCPServer returns the underlying MCP server, for mounting on HTTP or
// stdio transports.
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleListOnlineUsers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int      `json:"count"`
		Users []string `json:"users"`
	}

	err := c.apiCall("GET", "/api/presence", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Online users (%d):\n\n", response.Count)
	for _, user := range response.Users {
		result += fmt.Sprintf("- %s\n", user)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListRooms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	kind, _ := args["kind"].(string)

	path := "/api/rooms"
	if kind != "" {
		path += "?kind=" + kind
	}

	var response struct {
		Count int         `json:"count"`
		Rooms []room.Info `json:"rooms"`
	}

	err := c.apiCall("GET", path, nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Live rooms (%d):\n\n", response.Count)
	for _, info := range response.Rooms {
		result += fmt.Sprintf("- %s (kind: %s, members: %d)\n", info.ID, info.Kind, info.Members)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleRoomMembers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	roomID, _ := args["room_id"].(string)
	if roomID == "" {
		return mcp.NewToolResultError("room_id is required"), nil
	}

	var response struct {
		RoomID  string           `json:"room_id"`
		Count   int              `json:"count"`
		Members []service.Member `json:"members"`
	}

	err := c.apiCall("GET", "/api/rooms/"+roomID, nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Members of %s (%d):\n\n", response.RoomID, response.Count)
	for _, m := range response.Members {
		name := m.User
		if name == "" {
			name = "(unidentified)"
		}
		result += fmt.Sprintf("- %s [%s]\n", name, m.ConnID)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleServerStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var stats service.Stats

	err := c.apiCall("GET", "/api/stats", nil, &stats)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Connections: %d\nOnline users: %d\nRooms: %d\n",
		stats.Connections, stats.OnlineUsers, stats.Rooms)

	return mcp.NewToolResultText(result), nil
}
