package webserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pdevulapally/fakeverifier/src/api/types"
)

// testConvRouter mounts the conversation routes with a middleware that plays
// the part of the JWT layer, stamping a fixed uid on every request.
func testConvRouter(t *testing.T, uid string) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testDB(t)
	h := NewConversations(db)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("uid", uid)
	})
	r.POST("/api/conversations", h.Create)
	r.GET("/api/conversations", h.List)
	r.GET("/api/conversations/:id", h.Get)
	r.PUT("/api/conversations/:id", h.Update)
	r.DELETE("/api/conversations/:id", h.Delete)
	r.POST("/api/conversations/:id/react", h.React)
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestConversationCreateSanitizesContent(t *testing.T) {
	r, db := testConvRouter(t, "owner")

	w := doJSON(t, r, http.MethodPost, "/api/conversations", map[string]interface{}{
		"title": `Breaking <script>alert("x")</script> news`,
		"messages": []map[string]string{
			{"role": "user", "content": "is this <img src=x onerror=alert(1)> real?"},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	var conv types.Conversation
	if err := db.First(&conv, "id = ?", created.ID).Error; err != nil {
		t.Fatalf("read conversation: %v", err)
	}
	if strings.Contains(conv.Title, "<script>") {
		t.Errorf("title not sanitized: %q", conv.Title)
	}
	var msgs []types.ConversationMessage
	if err := db.Find(&msgs, "conversation_id = ?", created.ID).Error; err != nil {
		t.Fatalf("read messages: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("len(msgs) = %d, want 1", len(msgs))
	}
	if strings.Contains(msgs[0].Content, "onerror") {
		t.Errorf("message not sanitized: %q", msgs[0].Content)
	}
}

func TestConversationGetScopedToOwnerWhenPrivate(t *testing.T) {
	r, db := testConvRouter(t, "stranger")
	seedConversation(t, db, "c1", "owner", false)

	w := doJSON(t, r, http.MethodGet, "/api/conversations/c1", nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestConversationGetByStrangerCountsView(t *testing.T) {
	r, db := testConvRouter(t, "stranger")
	seedConversation(t, db, "c2", "owner", true)

	w := doJSON(t, r, http.MethodGet, "/api/conversations/c2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var conv types.Conversation
	if err := db.First(&conv, "id = ?", "c2").Error; err != nil {
		t.Fatalf("read conversation: %v", err)
	}
	if conv.Views != 1 {
		t.Errorf("views = %d, want 1", conv.Views)
	}
	var logs int64
	db.Model(&types.AccessLog{}).Where("conversation_id = ?", "c2").Count(&logs)
	if logs != 1 {
		t.Errorf("access logs = %d, want 1", logs)
	}
}

func TestConversationGetByOwnerDoesNotCountView(t *testing.T) {
	r, db := testConvRouter(t, "owner")
	seedConversation(t, db, "c3", "owner", true)

	if w := doJSON(t, r, http.MethodGet, "/api/conversations/c3", nil); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var conv types.Conversation
	if err := db.First(&conv, "id = ?", "c3").Error; err != nil {
		t.Fatalf("read conversation: %v", err)
	}
	if conv.Views != 0 {
		t.Errorf("views = %d, want 0", conv.Views)
	}
}

func TestConversationUpdateRejectsBadPrivacyLevel(t *testing.T) {
	r, db := testConvRouter(t, "owner")
	seedConversation(t, db, "c4", "owner", false)

	level := "secret"
	w := doJSON(t, r, http.MethodPut, "/api/conversations/c4", map[string]interface{}{
		"privacyLevel": level,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestConversationDeleteCascades(t *testing.T) {
	r, db := testConvRouter(t, "owner")
	seedConversation(t, db, "c5", "owner", false)
	if err := db.Create(&types.ConversationMessage{
		ID: "m1", ConversationID: "c5", Role: "user", Content: "hello",
	}).Error; err != nil {
		t.Fatalf("seed message: %v", err)
	}

	if w := doJSON(t, r, http.MethodDelete, "/api/conversations/c5", nil); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var msgs int64
	db.Model(&types.ConversationMessage{}).Where("conversation_id = ?", "c5").Count(&msgs)
	if msgs != 0 {
		t.Errorf("messages left = %d, want 0", msgs)
	}
}

func TestConversationReact(t *testing.T) {
	r, db := testConvRouter(t, "stranger")
	seedConversation(t, db, "c6", "owner", true)

	if w := doJSON(t, r, http.MethodPost, "/api/conversations/c6/react", map[string]string{"reaction": "like"}); w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if w := doJSON(t, r, http.MethodPost, "/api/conversations/c6/react", map[string]string{"reaction": "dislike"}); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var conv types.Conversation
	if err := db.First(&conv, "id = ?", "c6").Error; err != nil {
		t.Fatalf("read conversation: %v", err)
	}
	if conv.Likes != 1 || conv.Dislikes != 1 {
		t.Errorf("likes/dislikes = %d/%d, want 1/1", conv.Likes, conv.Dislikes)
	}
}

func seedConversation(t *testing.T, db *gorm.DB, id, uid string, public bool) {
	t.Helper()
	err := db.Create(&types.Conversation{
		ID: id, UID: uid, Title: "seeded", IsPublic: public, PrivacyLevel: "private",
	}).Error
	if err != nil {
		t.Fatalf("seed conversation: %v", err)
	}
}
