// Package telegramtest runs a fake Bot API over httptest.
package telegramtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"kaliroot-admin/internal/platform/telegram"
)

const Token = "123456:test-token"

// Sent is one recorded sendMessage call.
type Sent struct {
	ChatID    string
	Text      string
	ParseMode string
}

// Server answers getMe, getWebhookInfo, deleteWebhook, sendMessage, getChat
// and getChatMemberCount. Chats listed in FailChats get a 403.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	sent      []Sent
	calls     map[string]int
	failChats map[string]bool
	webhook   telegram.WebhookInfo
	lastBody  map[string]map[string]any
}

func NewServer(t *testing.T) *Server {
	t.Helper()
	s := &Server{
		calls:     map[string]int{},
		failChats: map[string]bool{},
		lastBody:  map[string]map[string]any{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Client returns a client for token pointed at the fake.
func (s *Server) Client(token string) *telegram.Client {
	return telegram.NewClient(s.URL, token, 5*time.Second)
}

func (s *Server) FailChat(chatID string) {
	s.mu.Lock()
	s.failChats[chatID] = true
	s.mu.Unlock()
}

func (s *Server) SetWebhook(info telegram.WebhookInfo) {
	s.mu.Lock()
	s.webhook = info
	s.mu.Unlock()
}

func (s *Server) Sent() []Sent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Sent(nil), s.sent...)
}

func (s *Server) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// LastBody is the decoded payload of the last call to method.
func (s *Server) LastBody(method string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastBody[method]
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	// /bot<token>/<method>
	path := strings.TrimPrefix(r.URL.Path, "/bot")
	token, method, _ := strings.Cut(path, "/")

	body := map[string]any{}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	_ = dec.Decode(&body)

	s.mu.Lock()
	s.calls[method]++
	s.lastBody[method] = body
	webhook := s.webhook
	s.mu.Unlock()

	if token != Token {
		reply(w, http.StatusUnauthorized, false, nil, "Unauthorized")
		return
	}

	chatID := fmt.Sprint(body["chat_id"])
	switch method {
	case "getMe":
		reply(w, http.StatusOK, true, telegram.User{ID: 123456, IsBot: true, FirstName: "KaliRoot", Username: "kaliroot_bot"}, "")
	case "getWebhookInfo":
		reply(w, http.StatusOK, true, webhook, "")
	case "deleteWebhook":
		reply(w, http.StatusOK, true, true, "")
	case "sendMessage":
		s.mu.Lock()
		fail := s.failChats[chatID]
		if !fail {
			s.sent = append(s.sent, Sent{
				ChatID:    chatID,
				Text:      fmt.Sprint(body["text"]),
				ParseMode: fmt.Sprint(body["parse_mode"]),
			})
		}
		s.mu.Unlock()
		if fail {
			reply(w, http.StatusForbidden, false, nil, "Forbidden: bot was blocked by the user")
			return
		}
		reply(w, http.StatusOK, true, telegram.Message{MessageID: 1, Date: time.Now().Unix()}, "")
	case "getChat":
		reply(w, http.StatusOK, true, telegram.Chat{ID: -100123, Type: "channel", Title: "KaliRoot News", Username: strings.TrimPrefix(chatID, "@")}, "")
	case "getChatMemberCount":
		reply(w, http.StatusOK, true, 1337, "")
	default:
		reply(w, http.StatusNotFound, false, nil, "Not Found: method not found")
	}
}

func reply(w http.ResponseWriter, status int, ok bool, result any, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	out := map[string]any{"ok": ok}
	if ok {
		out["result"] = result
	} else {
		out["error_code"] = status
		out["description"] = description
	}
	_ = json.NewEncoder(w).Encode(out)
}
