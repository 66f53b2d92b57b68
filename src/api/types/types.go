package types

import "time"

// Plan tiers.
const (
	PlanFree       = "free"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"
)

// ImageLimit returns how many image attachments a plan accepts per request.
func ImageLimit(plan string) int {
	switch plan {
	case PlanPro:
		return 3
	case PlanEnterprise:
		return 10
	default:
		return 1
	}
}

// TokenUsage is the per-user quota document. It is only ever mutated
// inside a single transaction per verification call, or by the plan
// endpoints.
type TokenUsage struct {
	UID          string `gorm:"primaryKey;size:128"`
	Plan         string `gorm:"size:16;default:free"`
	Used         int64  `gorm:"default:0"` // monthly
	DailyUsed    int64  `gorm:"default:0"`
	LimitDaily   int64  `gorm:"default:50"`
	LimitMonthly int64  `gorm:"default:500"`
	Timezone     string `gorm:"size:64;default:UTC"`
	LastUpdated  time.Time
}

func (TokenUsage) TableName() string { return "token_usage" }

// Conversation is a stored verification thread.
type Conversation struct {
	ID           string `gorm:"primaryKey;size:64"`
	UID          string `gorm:"index;size:128;not null"`
	Title        string `gorm:"size:255"`
	IsPublic     bool   `gorm:"default:false"`
	PrivacyLevel string `gorm:"size:16;default:private"`
	Likes        int64  `gorm:"default:0"`
	Dislikes     int64  `gorm:"default:0"`
	Views        int64  `gorm:"default:0"`
	Messages     []ConversationMessage `gorm:"foreignKey:ConversationID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Conversation) TableName() string { return "conversations" }

// ConversationMessage is one turn in a conversation.
type ConversationMessage struct {
	ID             string `gorm:"primaryKey;size:64"`
	ConversationID string `gorm:"index;size:64;not null"`
	Role           string `gorm:"size:16;not null"` // user, assistant
	Content        string `gorm:"type:mediumtext"`
	Timestamp      time.Time
}

func (ConversationMessage) TableName() string { return "conversation_messages" }

// AccessLog records a view of a shared conversation.
type AccessLog struct {
	ID             uint64 `gorm:"primaryKey"`
	ConversationID string `gorm:"index;size:64;not null"`
	ViewerUID      string `gorm:"size:128"`
	ViewedAt       time.Time
}

func (AccessLog) TableName() string { return "conversation_access_logs" }

// Feedback is a stored thumbs up/down on a verdict.
type Feedback struct {
	ID        uint64 `gorm:"primaryKey"`
	UID       string `gorm:"index;size:128"`
	Verdict   string `gorm:"size:32"`
	Helpful   bool
	Comment   string `gorm:"size:1024"`
	CreatedAt time.Time
}

func (Feedback) TableName() string { return "feedback" }

// Settings
type Setting struct {
	ID    uint8  `gorm:"primaryKey"`
	Name  string `gorm:"size:32;not null"`
	Value string `gorm:"size:256;not null"`
}

func (Setting) TableName() string { return "settings" }
