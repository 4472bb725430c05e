package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func completion(content string) chatResponse {
	return chatResponse{
		ID:     "test-id",
		Object: "chat.completion",
		Choices: []chatChoice{
			{Index: 0, Message: Message{Role: "assistant", Content: content}, FinishReason: "stop"},
		},
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8081/", "test-key", "test-model")
	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.BaseURL != "http://localhost:8081" {
		t.Errorf("NewClient() BaseURL = %v, want trailing slash trimmed", client.BaseURL)
	}
	if client.APIKey != "test-key" {
		t.Errorf("NewClient() APIKey = %v, want test-key", client.APIKey)
	}
	if client.Model != "test-model" {
		t.Errorf("NewClient() Model = %v, want test-model", client.Model)
	}
	if client.client == nil || client.client.Timeout != DefaultTimeout {
		t.Error("NewClient() should configure an http client with the default timeout")
	}

	custom := &http.Client{}
	client = NewClient("http://x", "", "m", WithHTTPClient(custom), WithSystemPrompt("be brief"))
	if client.client != custom {
		t.Error("WithHTTPClient() not applied")
	}
	if client.SystemPrompt != "be brief" {
		t.Errorf("WithSystemPrompt() SystemPrompt = %q", client.SystemPrompt)
	}
}

func TestClient_Chat(t *testing.T) {
	tests := []struct {
		name       string
		serverResp func(w http.ResponseWriter, r *http.Request)
		wantReply  string
		wantErr    bool
	}{
		{
			name: "successful chat",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/v1/chat/completions" {
					t.Errorf("expected /v1/chat/completions, got %s", r.URL.Path)
				}
				if r.Header.Get("Authorization") != "Bearer test-key" {
					t.Errorf("unexpected Authorization header %q", r.Header.Get("Authorization"))
				}

				var req chatRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Fatalf("failed to decode request: %v", err)
				}
				if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_object" {
					t.Error("Chat() should request a json_object reply")
				}
				if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Content != "Hello" {
					t.Errorf("unexpected messages %+v", req.Messages)
				}

				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(completion(`{"subject":"s","body":"b"}`))
			},
			wantReply: `{"subject":"s","body":"b"}`,
		},
		{
			name: "no choices returned",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(chatResponse{ID: "test-id", Choices: []chatChoice{}})
			},
			wantErr: true,
		},
		{
			name: "server error",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte("internal server error"))
			},
			wantErr: true,
		},
		{
			name: "invalid json",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("{not json"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResp))
			defer server.Close()

			client := NewClient(server.URL, "test-key", "test-model", WithSystemPrompt("You are an advisor."))
			reply, err := client.Chat(context.Background(), "Hello")

			if tt.wantErr {
				if err == nil {
					t.Errorf("Chat() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("Chat() unexpected error: %v", err)
				return
			}
			if reply != tt.wantReply {
				t.Errorf("Chat() reply = %v, want %v", reply, tt.wantReply)
			}
		})
	}
}

func TestClient_Chat_NoChoicesSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(chatResponse{})
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "", "m").Chat(context.Background(), "Hello")
	if !errors.Is(err, ErrNoChoices) {
		t.Errorf("Chat() error = %v, want ErrNoChoices", err)
	}
}

func TestClient_ChatWithMessages(t *testing.T) {
	temperature := float32(0.2)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("no Authorization header expected without an API key")
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Model != "override-model" {
			t.Errorf("Model = %q, want override-model", req.Model)
		}
		if req.MaxTokens != 128 {
			t.Errorf("MaxTokens = %d, want 128", req.MaxTokens)
		}
		if req.Temperature == nil || *req.Temperature != temperature {
			t.Errorf("Temperature = %v, want %v", req.Temperature, temperature)
		}
		if req.ResponseFormat != nil {
			t.Error("ResponseFormat should be omitted without JSONMode")
		}
		if len(req.Messages) != 3 {
			t.Errorf("expected 3 messages, got %d", len(req.Messages))
		}

		_ = json.NewEncoder(w).Encode(completion("Hello there!"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "test-model")
	reply, err := client.ChatWithMessages(context.Background(), []Message{
		{Role: "system", Content: "You are an advisor."},
		{Role: "user", Content: "Hi"},
		{Role: "assistant", Content: "Hello!"},
	}, ChatParams{Model: "override-model", MaxTokens: 128, Temperature: &temperature})
	if err != nil {
		t.Fatalf("ChatWithMessages() unexpected error: %v", err)
	}
	if reply != "Hello there!" {
		t.Errorf("ChatWithMessages() reply = %q", reply)
	}
}

func TestClient_ChatWithMessages_DefaultModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "test-model" {
			t.Errorf("Model = %q, want client default test-model", req.Model)
		}
		_ = json.NewEncoder(w).Encode(completion("ok"))
	}))
	defer server.Close()

	reply, err := NewClient(server.URL, "k", "test-model").
		ChatWithMessages(context.Background(), []Message{{Role: "user", Content: "Hi"}}, ChatParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.EqualFold(reply, "ok") {
		t.Errorf("reply = %q, want ok", reply)
	}
}
