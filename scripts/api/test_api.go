// Minimal end‑to‑end integration test for the FakeVerifier API.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	baseURL = getenv("API_URL", "http://localhost:8080/api")
	secret  = getenv("JWT_SECRET", "dev-secret")
	uid     = "smoketest-" + uuid.NewString()[:8]
)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	token := mintToken()

	setPlan(token, "free")
	checkPlan(token, "free")
	checkTokens(token)

	resp := runVerify(token, "The Eiffel Tower was moved to Berlin in 2024")
	if resp.Verdict == "" {
		log.Fatal("verify: empty verdict")
	}
	fmt.Printf("verdict: %s (%d%%)\n", resp.Verdict, resp.Confidence)

	convID := createConversation(token, resp.MessageMarkdown)
	checkConversation(token, convID)
	sendFeedback(token, resp.Verdict)

	fmt.Println("✓ all endpoints passed")
}

func mintToken() string {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": uid,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	return tok
}

// ----------------------------- plan and quota

func setPlan(tok, plan string) {
	doAuth(tok, "POST", "/update-plan", map[string]any{
		"uid":      uid,
		"plan":     plan,
		"timezone": "Europe/London",
	}, nil, http.StatusOK)
}

func checkPlan(tok, want string) {
	var resp struct{ Plan string }
	doAuth(tok, "GET", "/user-plan?uid="+uid, nil, &resp, http.StatusOK)
	if resp.Plan != want {
		log.Fatalf("plan: want %s got %s", want, resp.Plan)
	}
}

func checkTokens(tok string) {
	var resp struct{ Daily, Monthly int64 }
	doAuth(tok, "GET", "/user-tokens?uid="+uid, nil, &resp, http.StatusOK)
	if resp.Daily == 0 {
		log.Fatal("tokens: fresh account has no daily allowance")
	}
}

// ----------------------------- verify

type verifyResponse struct {
	Verdict         string `json:"verdict"`
	Confidence      int    `json:"confidence"`
	MessageMarkdown string `json:"messageMarkdown"`
}

func runVerify(tok, claim string) verifyResponse {
	var resp verifyResponse
	doAuth(tok, "POST", "/verify", map[string]any{
		"uid":   uid,
		"input": map[string]string{"raw": claim},
	}, &resp, http.StatusOK)
	return resp
}

// ----------------------------- conversations and feedback

func createConversation(tok, markdown string) string {
	var resp struct{ ID string }
	doAuth(tok, "POST", "/conversations", map[string]any{
		"title": "integration-test " + uuid.NewString(),
		"messages": []map[string]string{
			{"role": "assistant", "content": markdown},
		},
	}, &resp, http.StatusCreated)
	if resp.ID == "" {
		log.Fatal("conversations: empty id")
	}
	return resp.ID
}

func checkConversation(tok, id string) {
	var resp struct{ ID string }
	doAuth(tok, "GET", "/conversations/"+id, nil, &resp, http.StatusOK)
	if resp.ID != id {
		log.Fatalf("conversations: want %s got %s", id, resp.ID)
	}
}

func sendFeedback(tok, verdict string) {
	doAuth(tok, "POST", "/feedback", map[string]any{
		"verdict": verdict,
		"helpful": true,
	}, nil, http.StatusCreated)
}

// ----------------------------- helpers

func doAuth(token, method, path string, body, out any, want int) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			log.Fatalf("%s %s encode: %v", method, path, err)
		}
	}
	req, _ := http.NewRequest(method, baseURL+path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	if res.StatusCode != want {
		log.Fatalf("%s %s: want %d got %d", method, path, want, res.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			log.Fatalf("%s %s decode: %v", method, path, err)
		}
	}
}
