package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Preethiroja/StudyVault-MERN/collab/room"
	"github.com/Preethiroja/StudyVault-MERN/collab/service"
)

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:5000"
	client := NewClient(baseURL)

	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.mcpServer == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "room \"x\": room not found"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("GET", "/api/rooms/x", nil, nil)
	if err == nil {
		t.Fatal("Expected error for HTTP 404 response")
	}

	if !strings.Contains(err.Error(), "room not found") {
		t.Errorf("Expected the API error message to pass through, got: %v", err)
	}
}

func TestClient_handleListOnlineUsers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" || r.URL.Path != "/api/presence" {
			t.Errorf("Expected GET /api/presence, got %s %s", r.Method, r.URL.Path)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"count": 2,
			"users": []string{"Alice", "Bob"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "list_online_users",
			Arguments: map[string]interface{}{},
		},
	}

	result, err := client.handleListOnlineUsers(context.Background(), request)
	if err != nil {
		t.Fatalf("handleListOnlineUsers failed: %v", err)
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	if !strings.Contains(text.Text, "Alice") || !strings.Contains(text.Text, "Bob") {
		t.Errorf("Expected both users in result, got: %s", text.Text)
	}
}

func TestClient_handleListRooms_KindFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("kind"); got != "whiteboard" {
			t.Errorf("Expected kind=whiteboard query, got %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"count": 1,
			"rooms": []room.Info{{ID: "WB_Alice_Bob", Kind: room.Whiteboard, Members: 2}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "list_rooms",
			Arguments: map[string]interface{}{"kind": "whiteboard"},
		},
	}

	result, err := client.handleListRooms(context.Background(), request)
	if err != nil {
		t.Fatalf("handleListRooms failed: %v", err)
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	if !strings.Contains(text.Text, "WB_Alice_Bob") {
		t.Errorf("Expected room id in result, got: %s", text.Text)
	}
}

func TestClient_handleRoomMembers_RequiresRoomID(t *testing.T) {
	client := NewClient("http://localhost:5000")

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "room_members",
			Arguments: map[string]interface{}{},
		},
	}

	result, err := client.handleRoomMembers(context.Background(), request)
	if err != nil {
		t.Fatalf("handleRoomMembers failed: %v", err)
	}
	if !result.IsError {
		t.Error("Expected a tool error for missing room_id")
	}
}

func TestClient_handleServerStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/stats" {
			t.Errorf("Expected /api/stats, got %s", r.URL.Path)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(service.Stats{Connections: 3, OnlineUsers: 2, Rooms: 1})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "server_stats",
			Arguments: map[string]interface{}{},
		},
	}

	result, err := client.handleServerStats(context.Background(), request)
	if err != nil {
		t.Fatalf("handleServerStats failed: %v", err)
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	if !strings.Contains(text.Text, "Connections: 3") {
		t.Errorf("Unexpected stats output: %s", text.Text)
	}
}
