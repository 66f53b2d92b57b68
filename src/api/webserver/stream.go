package webserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pdevulapally/fakeverifier/src/verify"
)

// Stream serves the verification timeline as Server-Sent Events. The
// search/reading/analyzing stages fire on fixed timers while a simpler
// single-call verification runs in the background; the timers are a UX
// animation, not real pipeline progress. The final frame carries the
// verdict.
type Stream struct {
	pipe *verify.Pipeline
}

func NewStream(pipe *verify.Pipeline) Stream {
	return Stream{pipe: pipe}
}

type streamFrame struct {
	ID        string      `json:"id"`
	Stage     string      `json:"stage"`
	Message   string      `json:"message"`
	Timestamp int64       `json:"timestamp"`
	Result    interface{} `json:"result,omitempty"`
}

func (s Stream) Run(c *gin.Context) {
	q := c.Query("q")
	uid := c.Query("uid")
	if q == "" || uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q and uid are required"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	type outcome struct {
		decision *verify.Decision
		err      error
	}
	done := make(chan outcome, 1)
	go func() {
		d, err := s.pipe.Quick(c.Request.Context(), uid, q)
		done <- outcome{d, err}
	}()

	emit := func(stage, message string, result interface{}) {
		c.SSEvent("message", streamFrame{
			ID:        uuid.NewString(),
			Stage:     stage,
			Message:   message,
			Timestamp: time.Now().UnixMilli(),
			Result:    result,
		})
		c.Writer.Flush()
	}

	emit("search", "Searching the web for coverage of this claim...", nil)

	time.Sleep(500 * time.Millisecond)
	emit("reading", "Reading and extracting candidate sources...", nil)

	time.Sleep(700 * time.Millisecond)
	emit("analyzing", "Cross-checking the claim against evidence...", nil)

	out := <-done
	if out.err != nil {
		emit("verdict", "Verification failed: "+out.err.Error(), nil)
		return
	}
	emit("verdict", out.decision.Verdict, out.decision)
}
