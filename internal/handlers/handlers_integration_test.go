package handlers_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"mentormatch/internal/handlers"
	"mentormatch/internal/middleware"
	"mentormatch/internal/models"
	"mentormatch/internal/repositories"
	"mentormatch/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp sets up a Fiber app for testing with in-memory SQLite and all
// handlers/services, wired the same way as main.
func setupApp() (*fiber.App, error) {
	// Configure Viper for testing
	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	// Initialize in-memory SQLite database
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to in-memory database: %w", err)
	}

	// Auto-migrate models
	err = db.AutoMigrate(&models.User{}, &models.MatchRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	// Initialize Repositories
	userRepo := repositories.NewGORMUserRepository(db)
	matchRepo := repositories.NewGORMMatchRequestRepository(db)

	// Initialize Services (nil MQ client: no events in tests)
	authService := services.NewAuthService(userRepo, jwtSecret)
	userService := services.NewUserService(userRepo)
	mentorService := services.NewMentorService(userRepo)
	matchService := services.NewMatchService(matchRepo, userRepo, nil)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	mentorHandler := handlers.NewMentorHandler(mentorService)
	matchHandler := handlers.NewMatchHandler(matchService)

	app := fiber.New()

	api := app.Group("/api")

	// Public routes
	authHandler.RegisterRoutes(api)
	userHandler.RegisterPublicRoutes(api)

	// Protected routes (require a valid bearer token)
	protected := api.Group("", middleware.AuthRequired(authService, userService))
	userHandler.RegisterRoutes(protected)
	mentorHandler.RegisterRoutes(protected)
	matchHandler.RegisterRoutes(protected)

	return app, nil
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1) // -1 for no timeout
	assert.NoError(t, err)
	return resp
}

// decodeBody reads a JSON object response body.
func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// decodeList reads a JSON array response body.
func decodeList(t *testing.T, resp *http.Response) []map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var body []map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// signupAndLogin registers a user and returns their id and a fresh token.
func signupAndLogin(t *testing.T, app *fiber.App, email, name, role string) (string, string) {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/signup", map[string]string{
		"email":    email,
		"password": "password123",
		"name":     name,
		"role":     role,
	}, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	id, _ := decodeBody(t, resp)["id"].(string)
	assert.NotEmpty(t, id)

	resp = doJSON(t, app, http.MethodPost, "/api/login", map[string]string{
		"email":    email,
		"password": "password123",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := decodeBody(t, resp)["token"].(string)
	assert.NotEmpty(t, token)

	return id, token
}

func TestSignupAndLogin(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)

	// Successful signup
	resp := doJSON(t, app, http.MethodPost, "/api/signup", map[string]string{
		"email":    "signup.mentor@example.com",
		"password": "password123",
		"name":     "Signup Mentor",
		"role":     "mentor",
	}, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "User created successfully", body["message"])
	assert.NotEmpty(t, body["id"])

	// Second signup with the same email always fails
	resp = doJSON(t, app, http.MethodPost, "/api/signup", map[string]string{
		"email":    "signup.mentor@example.com",
		"password": "different456",
		"name":     "Copycat",
		"role":     "mentee",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email already registered", decodeBody(t, resp)["detail"])

	// Malformed email is a validation error
	resp = doJSON(t, app, http.MethodPost, "/api/signup", map[string]string{
		"email":    "not-an-email",
		"password": "password123",
		"name":     "Bad Email",
		"role":     "mentee",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown role is rejected
	resp = doJSON(t, app, http.MethodPost, "/api/signup", map[string]string{
		"email":    "admin@example.com",
		"password": "password123",
		"name":     "Admin",
		"role":     "admin",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Login works
	resp = doJSON(t, app, http.MethodPost, "/api/login", map[string]string{
		"email":    "signup.mentor@example.com",
		"password": "password123",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, decodeBody(t, resp)["token"])

	// Wrong password and unknown email produce the same generic error
	resp = doJSON(t, app, http.MethodPost, "/api/login", map[string]string{
		"email":    "signup.mentor@example.com",
		"password": "wrongpassword",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid email or password", decodeBody(t, resp)["detail"])

	resp = doJSON(t, app, http.MethodPost, "/api/login", map[string]string{
		"email":    "ghost@example.com",
		"password": "password123",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid email or password", decodeBody(t, resp)["detail"])
}

func TestMeAndProfile(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)

	mentorID, mentorToken := signupAndLogin(t, app, "profile.mentor@example.com", "Profile Mentor", "mentor")

	// /me without a token
	resp := doJSON(t, app, http.MethodGet, "/api/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// /me with a garbage token
	resp = doJSON(t, app, http.MethodGet, "/api/me", nil, "garbage.token.here")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// /me with a valid token
	resp = doJSON(t, app, http.MethodGet, "/api/me", nil, mentorToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, mentorID, body["id"])
	assert.Equal(t, "mentor", body["role"])
	profile := body["profile"].(map[string]interface{})
	assert.Equal(t, "Profile Mentor", profile["name"])
	assert.Equal(t, "/images/mentor/"+mentorID, profile["imageUrl"])
	assert.Equal(t, []interface{}{}, profile["skills"])

	// Update the profile with skills; order must survive the round trip.
	resp = doJSON(t, app, http.MethodPut, "/api/profile", map[string]interface{}{
		"name":   "Updated Mentor",
		"bio":    "I mentor things",
		"skills": []string{"Python", "Go"},
	}, mentorToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/me", nil, mentorToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	profile = decodeBody(t, resp)["profile"].(map[string]interface{})
	assert.Equal(t, "Updated Mentor", profile["name"])
	assert.Equal(t, "I mentor things", profile["bio"])
	assert.Equal(t, []interface{}{"Python", "Go"}, profile["skills"])

	// A mentee profile never carries skills, and skills in the update body
	// are ignored rather than rejected.
	_, menteeToken := signupAndLogin(t, app, "profile.mentee@example.com", "Profile Mentee", "mentee")
	resp = doJSON(t, app, http.MethodPut, "/api/profile", map[string]interface{}{
		"name":   "Profile Mentee",
		"skills": []string{"Python"},
	}, menteeToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	profile = body["profile"].(map[string]interface{})
	_, hasSkills := profile["skills"]
	assert.False(t, hasSkills)
}

func TestExpiredToken(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)

	userID, _ := signupAndLogin(t, app, "expired@example.com", "Expiring User", "mentee")

	// Craft an otherwise valid token that already expired.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "mentor-mentee-app",
		"sub": userID,
		"aud": "mentor-mentee-app",
		"exp": time.Now().Add(-time.Second).Unix(),
		"iat": time.Now().Add(-time.Hour).Unix(),
	})
	expired, err := token.SignedString([]byte(viper.GetString("JWT_SECRET")))
	assert.NoError(t, err)

	resp := doJSON(t, app, http.MethodGet, "/api/me", nil, expired)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Token has expired", decodeBody(t, resp)["detail"])
}

func TestMentorsDirectory(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)

	// Two mentors with a skill marker unique to this test, to keep the
	// shared in-memory database out of the assertions.
	_, zoeToken := signupAndLogin(t, app, "dir.zoe@example.com", "Zoe", "mentor")
	resp := doJSON(t, app, http.MethodPut, "/api/profile", map[string]interface{}{
		"name":   "Zoe",
		"skills": []string{"DirSkill", "Rust"},
	}, zoeToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, adamToken := signupAndLogin(t, app, "dir.adam@example.com", "Adam", "mentor")
	resp = doJSON(t, app, http.MethodPut, "/api/profile", map[string]interface{}{
		"name":   "Adam",
		"skills": []string{"DirSkill", "Go"},
	}, adamToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, menteeToken := signupAndLogin(t, app, "dir.mentee@example.com", "Dir Mentee", "mentee")

	// Mentee lists mentors, filtered and ordered by name.
	resp = doJSON(t, app, http.MethodGet, "/api/mentors?skill=DirSkill&order_by=name", nil, menteeToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mentors := decodeList(t, resp)
	assert.Len(t, mentors, 2)
	first := mentors[0]["profile"].(map[string]interface{})
	second := mentors[1]["profile"].(map[string]interface{})
	assert.Equal(t, "Adam", first["name"])
	assert.Equal(t, "Zoe", second["name"])

	// Substring filter, not tag membership.
	resp = doJSON(t, app, http.MethodGet, "/api/mentors?skill=DirSk", nil, menteeToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeList(t, resp), 2)

	// The directory is mentee-only.
	resp = doJSON(t, app, http.MethodGet, "/api/mentors", nil, zoeToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestMatchRequestFlow(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)

	mentorID, mentorToken := signupAndLogin(t, app, "flow.mentor@example.com", "Flow Mentor", "mentor")
	menteeAID, menteeAToken := signupAndLogin(t, app, "flow.mentee.a@example.com", "Flow Mentee A", "mentee")
	menteeCID, menteeCToken := signupAndLogin(t, app, "flow.mentee.c@example.com", "Flow Mentee C", "mentee")

	// Creating for someone else is forbidden.
	resp := doJSON(t, app, http.MethodPost, "/api/match-requests", map[string]string{
		"mentorId": mentorID,
		"menteeId": menteeCID,
		"message":  "impostor",
	}, menteeAToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Mentors cannot create requests at all.
	resp = doJSON(t, app, http.MethodPost, "/api/match-requests", map[string]string{
		"mentorId": mentorID,
		"menteeId": mentorID,
	}, mentorToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Mentee A requests the mentor.
	resp = doJSON(t, app, http.MethodPost, "/api/match-requests", map[string]string{
		"mentorId": mentorID,
		"menteeId": menteeAID,
		"message":  "hello",
	}, menteeAToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	created := decodeBody(t, resp)
	assert.Equal(t, "pending", created["status"])
	assert.Equal(t, "hello", created["message"])
	requestID := created["id"].(string)

	// A second pending request from the same mentee is refused.
	resp = doJSON(t, app, http.MethodPost, "/api/match-requests", map[string]string{
		"mentorId": mentorID,
		"menteeId": menteeAID,
		"message":  "again",
	}, menteeAToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown mentor target.
	resp = doJSON(t, app, http.MethodPost, "/api/match-requests", map[string]string{
		"mentorId": "no-such-mentor",
		"menteeId": menteeCID,
	}, menteeCToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Mentor not found", decodeBody(t, resp)["detail"])

	// Incoming list for the mentor carries the message.
	resp = doJSON(t, app, http.MethodGet, "/api/match-requests/incoming", nil, mentorToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	incoming := decodeList(t, resp)
	assert.Len(t, incoming, 1)
	assert.Equal(t, "hello", incoming[0]["message"])

	// Outgoing list for the mentee omits the message.
	resp = doJSON(t, app, http.MethodGet, "/api/match-requests/outgoing", nil, menteeAToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	outgoing := decodeList(t, resp)
	assert.Len(t, outgoing, 1)
	_, hasMessage := outgoing[0]["message"]
	assert.False(t, hasMessage)

	// Accepting a foreign/nonexistent id is a plain 404.
	resp = doJSON(t, app, http.MethodPut, "/api/match-requests/no-such-id/accept", nil, mentorToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// The mentor accepts.
	resp = doJSON(t, app, http.MethodPut, "/api/match-requests/"+requestID+"/accept", nil, mentorToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "accepted", decodeBody(t, resp)["status"])

	// Mentee C requests the same mentor; the second accept hits the slot limit.
	resp = doJSON(t, app, http.MethodPost, "/api/match-requests", map[string]string{
		"mentorId": mentorID,
		"menteeId": menteeCID,
		"message":  "me too",
	}, menteeCToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	secondID := decodeBody(t, resp)["id"].(string)

	resp = doJSON(t, app, http.MethodPut, "/api/match-requests/"+secondID+"/accept", nil, mentorToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "You already have an accepted mentee", decodeBody(t, resp)["detail"])

	// Rejecting it works.
	resp = doJSON(t, app, http.MethodPut, "/api/match-requests/"+secondID+"/reject", nil, mentorToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "rejected", decodeBody(t, resp)["status"])

	// Another mentee cannot cancel A's request; same 404 as nonexistent.
	resp = doJSON(t, app, http.MethodDelete, "/api/match-requests/"+requestID, nil, menteeCToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// The owning mentee can cancel, even though the request was accepted.
	resp = doJSON(t, app, http.MethodDelete, "/api/match-requests/"+requestID, nil, menteeAToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "cancelled", decodeBody(t, resp)["status"])
}

func TestProfileImages(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)

	mentorID, mentorToken := signupAndLogin(t, app, "img.mentor@example.com", "Image Mentor", "mentor")

	// Without an image the route redirects to the role placeholder.
	resp := doJSON(t, app, http.MethodGet, "/api/images/mentor/"+mentorID, nil, "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://placehold.co/500x500.jpg?text=MENTOR", resp.Header.Get("Location"))

	// Upload an image via the profile endpoint.
	imageBytes := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}
	resp = doJSON(t, app, http.MethodPut, "/api/profile", map[string]interface{}{
		"name":  "Image Mentor",
		"image": base64.StdEncoding.EncodeToString(imageBytes),
	}, mentorToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/images/mentor/"+mentorID, nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.NoError(t, err)
	assert.Equal(t, imageBytes, data)

	// The role in the path must match the user's role.
	resp = doJSON(t, app, http.MethodGet, "/api/images/mentee/"+mentorID, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/images/mentor/no-such-user", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
