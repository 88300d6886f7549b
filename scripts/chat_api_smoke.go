package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/golang-jwt/jwt/v5"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{} // generation can be slow, no timeout
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func signToken(secret, subject string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		color.Red("Failed to sign token: %v", err)
		os.Exit(1)
	}
	return signed
}

func decode(body []byte) map[string]interface{} {
	var out map[string]interface{}
	json.Unmarshal(body, &out)
	return out
}

func main() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		color.Red("JWT_SECRET is not set")
		os.Exit(1)
	}
	token := signToken(secret, "smoke-test-user")

	color.Cyan("🚀 Starting Chat API smoke test\n")

	// 1. Start a new session
	color.Yellow("\n1. POST /chat/v1/sessions (start chat)")
	resp, body, err := sendRequest("POST", "/chat/v1/sessions", token, map[string]string{
		"prompt": "Help me plan a weekend trip to the mountains",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	started := decode(body)
	prettyPrint(started)

	sessionId, _ := started["sessionId"].(string)
	if sessionId == "" {
		color.Red("No sessionId in response")
		os.Exit(1)
	}

	// 2. Continue the session
	color.Yellow("\n2. POST /chat/v1/sessions/%s (continue)", sessionId)
	resp, body, _ = sendRequest("POST", "/chat/v1/sessions/"+sessionId, token, map[string]string{
		"prompt": "Make it a budget version",
	})
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 3. List sessions
	color.Yellow("\n3. GET /chat/v1/sessions")
	resp, body, _ = sendRequest("GET", "/chat/v1/sessions", token, nil)
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 4. Fetch the transcript
	color.Yellow("\n4. GET /chat/v1/sessions/%s", sessionId)
	resp, body, _ = sendRequest("GET", "/chat/v1/sessions/"+sessionId, token, nil)
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 5. Rename
	color.Yellow("\n5. PATCH /chat/v1/sessions/%s", sessionId)
	resp, body, _ = sendRequest("PATCH", "/chat/v1/sessions/"+sessionId, token, map[string]string{
		"newName": "Mountain trip (smoke test)",
	})
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 6. Delete
	color.Yellow("\n6. DELETE /chat/v1/sessions/%s", sessionId)
	resp, body, _ = sendRequest("DELETE", "/chat/v1/sessions/"+sessionId, token, nil)
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 7. Confirm it is gone
	color.Yellow("\n7. GET /chat/v1/sessions/%s (expect 404)", sessionId)
	resp, body, _ = sendRequest("GET", "/chat/v1/sessions/"+sessionId, token, nil)
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	color.Cyan("\n✅ Smoke test finished")
}
