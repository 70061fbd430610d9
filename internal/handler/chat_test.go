package handler

import (
	"net/http"
	"testing"
)

func TestChatSend(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "minji.kim")
	f.relay.chatReply = "Start with the integral definition."

	w := f.do(t, http.MethodPost, "/api/ai/chat", map[string]any{
		"userId": 1,
		"prompt": "How should I revise improper integrals?",
	})
	assertStatus(t, w, http.StatusOK)

	var resp ChatResponse
	decodeJSON(t, w, &resp)
	if resp.Reply != "Start with the integral definition." {
		t.Fatalf("unexpected reply: %q", resp.Reply)
	}
	if len(resp.History) != 2 {
		t.Fatalf("expected 2 stored turns, got %d", len(resp.History))
	}
	if resp.History[0].Role != "user" || resp.History[1].Role != "assistant" {
		t.Fatalf("unexpected roles: %+v", resp.History)
	}
}

func TestChatSendUnknownUser(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/ai/chat", map[string]any{
		"userId": 99,
		"prompt": "hello",
	})
	assertStatus(t, w, http.StatusNotFound)
}

func TestChatSendValidation(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/ai/chat", map[string]any{"userId": 1})
	assertStatus(t, w, http.StatusUnprocessableEntity)
}

func TestChatHistory(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "minji.kim")

	w := f.do(t, http.MethodGet, "/api/ai/chat/1", nil)
	assertStatus(t, w, http.StatusOK)
	var empty ChatHistoryResponse
	decodeJSON(t, w, &empty)
	if len(empty.History) != 0 {
		t.Fatalf("expected empty history, got %d turns", len(empty.History))
	}

	w = f.do(t, http.MethodPost, "/api/ai/chat", map[string]any{
		"userId": 1,
		"prompt": "first question",
	})
	assertStatus(t, w, http.StatusOK)

	w = f.do(t, http.MethodGet, "/api/ai/chat/1", nil)
	assertStatus(t, w, http.StatusOK)
	var resp ChatHistoryResponse
	decodeJSON(t, w, &resp)
	if len(resp.History) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(resp.History))
	}
}

func TestChatHistoryUnknownUser(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/ai/chat/42", nil)
	assertStatus(t, w, http.StatusNotFound)
}
