package webserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"github.com/pdevulapally/fakeverifier/src/api/types"
)

// Conversations is the CRUD surface for stored verification threads. The
// verify pipeline never writes here; clients persist what they want kept.
type Conversations struct {
	db        *gorm.DB
	sanitizer *bluemonday.Policy
}

func NewConversations(db *gorm.DB) Conversations {
	sanitizer := bluemonday.StrictPolicy()
	sanitizer.AllowElements("p", "br", "strong", "em", "code", "pre", "blockquote")
	sanitizer.AllowElements("ul", "ol", "li")
	sanitizer.AllowElements("h1", "h2", "h3", "h4", "h5", "h6")
	sanitizer.AllowAttrs("href").OnElements("a")
	sanitizer.RequireParseableURLs(true)
	sanitizer.AddTargetBlankToFullyQualifiedLinks(true)
	sanitizer.RequireNoFollowOnLinks(true)
	return Conversations{db: db, sanitizer: sanitizer}
}

type messageBody struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required,max=65535"`
}

func (h Conversations) Create(c *gin.Context) {
	var req struct {
		Title    string        `json:"title" binding:"max=255"`
		Messages []messageBody `json:"messages" binding:"max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	uid := c.GetString("uid")

	conv := types.Conversation{
		ID:           uuid.NewString(),
		UID:          uid,
		Title:        h.sanitizer.Sanitize(req.Title),
		PrivacyLevel: "private",
	}
	if err := h.db.Create(&conv).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	for _, m := range req.Messages {
		_ = h.db.Create(&types.ConversationMessage{
			ID:             uuid.NewString(),
			ConversationID: conv.ID,
			Role:           m.Role,
			Content:        h.sanitizer.Sanitize(m.Content),
			Timestamp:      time.Now(),
		}).Error
	}
	c.JSON(http.StatusCreated, gin.H{"id": conv.ID})
}

func (h Conversations) List(c *gin.Context) {
	uid := c.GetString("uid")
	var convs []types.Conversation
	if err := h.db.Order("updated_at DESC").Find(&convs, "uid = ?", uid).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, convs)
}

func (h Conversations) Get(c *gin.Context) {
	uid := c.GetString("uid")
	var conv types.Conversation
	err := h.db.Preload("Messages").First(&conv, "id = ?", c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if conv.UID != uid && !conv.IsPublic {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized"})
		return
	}

	// Views and access logs only track reads by other users.
	if conv.UID != uid {
		_ = h.db.Model(&conv).UpdateColumn("views", gorm.Expr("views + 1")).Error
		_ = h.db.Create(&types.AccessLog{
			ConversationID: conv.ID,
			ViewerUID:      uid,
			ViewedAt:       time.Now(),
		}).Error
	}
	c.JSON(http.StatusOK, conv)
}

func (h Conversations) Update(c *gin.Context) {
	uid := c.GetString("uid")
	var req struct {
		Title        *string       `json:"title"`
		IsPublic     *bool         `json:"isPublic"`
		PrivacyLevel *string       `json:"privacyLevel"`
		Append       []messageBody `json:"append" binding:"max=20"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var conv types.Conversation
	err := h.db.First(&conv, "id = ?", c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if conv.UID != uid {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized"})
		return
	}

	if req.Title != nil {
		conv.Title = h.sanitizer.Sanitize(*req.Title)
	}
	if req.IsPublic != nil {
		conv.IsPublic = *req.IsPublic
	}
	if req.PrivacyLevel != nil {
		switch *req.PrivacyLevel {
		case "private", "unlisted", "public":
			conv.PrivacyLevel = *req.PrivacyLevel
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid privacy level"})
			return
		}
	}
	if err := h.db.Save(&conv).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	for _, m := range req.Append {
		_ = h.db.Create(&types.ConversationMessage{
			ID:             uuid.NewString(),
			ConversationID: conv.ID,
			Role:           m.Role,
			Content:        h.sanitizer.Sanitize(m.Content),
			Timestamp:      time.Now(),
		}).Error
	}
	c.JSON(http.StatusOK, gin.H{"id": conv.ID})
}

func (h Conversations) Delete(c *gin.Context) {
	uid := c.GetString("uid")
	var conv types.Conversation
	err := h.db.First(&conv, "id = ?", c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if conv.UID != uid {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized"})
		return
	}

	_ = h.db.Delete(&types.ConversationMessage{}, "conversation_id = ?", conv.ID).Error
	_ = h.db.Delete(&types.AccessLog{}, "conversation_id = ?", conv.ID).Error
	if err := h.db.Delete(&conv).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": conv.ID})
}

// React records a like or dislike on a shared conversation.
func (h Conversations) React(c *gin.Context) {
	var req struct {
		Reaction string `json:"reaction" binding:"required,oneof=like dislike"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var conv types.Conversation
	err := h.db.First(&conv, "id = ?", c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !conv.IsPublic && conv.UID != c.GetString("uid") {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized"})
		return
	}

	col := "likes"
	if req.Reaction == "dislike" {
		col = "dislikes"
	}
	if err := h.db.Model(&conv).UpdateColumn(col, gorm.Expr(col+" + 1")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": conv.ID})
}
