package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gormsqlite "github.com/glebarez/sqlite"
	"github.com/pulsechat/pulse-backend/internal/auth"
	"github.com/pulsechat/pulse-backend/internal/channel"
	"github.com/pulsechat/pulse-backend/internal/config"
	"github.com/pulsechat/pulse-backend/internal/message"
	"github.com/pulsechat/pulse-backend/internal/reaction"
	"gorm.io/gorm"
)

const (
	testSecret = "router-test-secret"
	userA      = "7d3a2f9e-0b1c-4d5e-8f6a-1b2c3d4e5f60"
	userB      = "9f8e7d6c-5b4a-4392-8170-6f5e4d3c2b1a"
	testOrigin = "http://localhost:5173"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&channel.Channel{}, &message.Message{}, &reaction.Reaction{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	if err := channel.NewRepo(db).EnsureGeneral(context.Background(), "general"); err != nil {
		t.Fatalf("seed general: %v", err)
	}

	cfg := config.Config{
		JWTSecret:         testSecret,
		AllowedOrigins:    []string{testOrigin},
		ChannelNamePolicy: config.NamePolicyTrim,
	}
	return NewRouter(db, cfg, nil, nil), db
}

func bearer(t *testing.T, sub string) string {
	t.Helper()
	token, err := auth.SignJWT(sub, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, authHeader string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", testOrigin)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode list: %v body=%s", err, w.Body.String())
	}
	return out
}

func TestUnauthenticatedRequestsRejectedWithoutSideEffects(t *testing.T) {
	r, db := setupRouter(t)

	// no credential
	w := doJSON(t, r, http.MethodPost, "/api/channels", "", map[string]any{"name": "sneaky"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	// garbage credential
	w = doJSON(t, r, http.MethodGet, "/api/channels", "Bearer not.a.token", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token, got %d", w.Code)
	}

	// nothing was written
	var cnt int64
	if err := db.Model(&channel.Channel{}).Where("name = ?", "sneaky").Count(&cnt).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("unauthenticated request created a row")
	}
}

func TestLivenessIsPublic(t *testing.T) {
	r, _ := setupRouter(t)
	w := doJSON(t, r, http.MethodGet, "/", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestChannelLifecycle(t *testing.T) {
	r, _ := setupRouter(t)
	tokenA := bearer(t, userA)

	w := doJSON(t, r, http.MethodPost, "/api/channels", tokenA, map[string]any{"name": " design ", "description": "made things"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", w.Code, w.Body.String())
	}

	// duplicate normalized name conflicts, the first stays queryable
	w = doJSON(t, r, http.MethodPost, "/api/channels", tokenA, map[string]any{"name": "design"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", w.Code, w.Body.String())
	}

	// empty name is a validation failure
	w = doJSON(t, r, http.MethodPost, "/api/channels", tokenA, map[string]any{"name": "   "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/channels", tokenA, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	chans := decodeList(t, w)
	if len(chans) != 2 {
		t.Fatalf("expected 2 channels, got %d", len(chans))
	}
	if chans[0]["name"] != "general" || chans[0]["is_general"] != true {
		t.Fatalf("expected general first, got %+v", chans[0])
	}
	if chans[1]["name"] != "design" {
		t.Fatalf("expected design second, got %+v", chans[1])
	}
}

func TestMessageAndReactionFlow(t *testing.T) {
	r, _ := setupRouter(t)
	tokenA := bearer(t, userA)
	tokenB := bearer(t, userB)

	// A posts to the seeded general channel (id 1)
	w := doJSON(t, r, http.MethodPost, "/api/channels/1/messages", tokenA, map[string]any{"content": "hello"})
	if w.Code != http.StatusCreated {
		t.Fatalf("post message: expected 201, got %d body=%s", w.Code, w.Body.String())
	}
	var posted map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &posted); err != nil {
		t.Fatalf("decode posted: %v", err)
	}
	msgID := uint64(posted["id"].(float64))

	// feed shows one message with an empty reaction list
	w = doJSON(t, r, http.MethodGet, "/api/channels/1/messages", tokenA, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	msgs := decodeList(t, w)
	if len(msgs) != 1 || msgs[0]["content"] != "hello" {
		t.Fatalf("unexpected feed: %+v", msgs)
	}
	if reactions := msgs[0]["reactions"].([]any); len(reactions) != 0 {
		t.Fatalf("expected no reactions, got %+v", reactions)
	}

	// B reacts
	path := fmt.Sprintf("/api/messages/%d/reactions", msgID)
	w = doJSON(t, r, http.MethodPost, path, tokenB, map[string]any{"emoji": "👍"})
	if w.Code != http.StatusOK {
		t.Fatalf("toggle: expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	sums := decodeList(t, w)
	if len(sums) != 1 || sums[0]["emoji"] != "👍" || sums[0]["count"] != float64(1) || sums[0]["reactedByMe"] != true {
		t.Fatalf("unexpected summary for B: %+v", sums)
	}

	// A's view: count 1, not mine
	w = doJSON(t, r, http.MethodGet, "/api/channels/1/messages", tokenA, nil)
	msgs = decodeList(t, w)
	reactions := msgs[0]["reactions"].([]any)
	if len(reactions) != 1 {
		t.Fatalf("expected 1 summary in A's view, got %+v", reactions)
	}
	first := reactions[0].(map[string]any)
	if first["count"] != float64(1) || first["reactedByMe"] != false {
		t.Fatalf("unexpected summary in A's view: %+v", first)
	}

	// B toggles again: back to no reactions
	w = doJSON(t, r, http.MethodPost, path, tokenB, map[string]any{"emoji": "👍"})
	if w.Code != http.StatusOK {
		t.Fatalf("second toggle: expected 200, got %d", w.Code)
	}
	if sums := decodeList(t, w); len(sums) != 0 {
		t.Fatalf("expected empty summary after second toggle, got %+v", sums)
	}
}

func TestMessageValidationAndNotFound(t *testing.T) {
	r, db := setupRouter(t)
	tokenA := bearer(t, userA)

	// neither text nor attachment
	w := doJSON(t, r, http.MethodPost, "/api/channels/1/messages", tokenA, map[string]any{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", w.Code, w.Body.String())
	}
	var cnt int64
	if err := db.Model(&message.Message{}).Count(&cnt).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("rejected post persisted a row")
	}

	// unknown channel
	w = doJSON(t, r, http.MethodPost, "/api/channels/99/messages", tokenA, map[string]any{"content": "hi"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodGet, "/api/channels/99/messages", tokenA, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on list, got %d", w.Code)
	}

	// unknown message for a reaction
	w = doJSON(t, r, http.MethodPost, "/api/messages/12345/reactions", tokenA, map[string]any{"emoji": "👍"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on reaction, got %d body=%s", w.Code, w.Body.String())
	}

	// attachment-only post works
	w = doJSON(t, r, http.MethodPost, "/api/channels/1/messages", tokenA, map[string]any{
		"attachment_url":  "https://blobs.example.com/f/abc123",
		"attachment_name": "notes.pdf",
		"attachment_type": "application/pdf",
		"attachment_size": 48213,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 for attachment-only post, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestCORSAllowList(t *testing.T) {
	r, _ := setupRouter(t)

	// allowed origin preflight
	req := httptest.NewRequest(http.MethodOptions, "/api/channels", nil)
	req.Header.Set("Origin", testOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != testOrigin {
		t.Fatalf("expected allow-origin %q, got %q", testOrigin, got)
	}

	// unlisted origin is rejected before any business logic
	req = httptest.NewRequest(http.MethodOptions, "/api/channels", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for unlisted origin, got %d", w.Code)
	}
}
