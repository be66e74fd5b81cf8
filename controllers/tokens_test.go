package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/HarshitSharma-h8/messmate/middleware"
	"github.com/HarshitSharma-h8/messmate/services"
	"github.com/HarshitSharma-h8/messmate/store"
	"github.com/HarshitSharma-h8/messmate/utils"
)

// tokenRouter wires the token routes the way main does, with the auth
// middleware replaced by a claims injector.
func tokenRouter(t *testing.T, claims *utils.Claims) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemoryStore()
	logger := zap.NewNop()
	events := services.NewEventService(st, logger)
	tokens := services.NewTokenService(st, events, logger)
	ctl := NewTokenController(tokens)

	r := gin.New()
	group := r.Group("/api/tokens", func(c *gin.Context) {
		if claims != nil {
			c.Set(middleware.ContextClaims, claims)
		}
		c.Next()
	})
	group.POST("", ctl.Issue)
	group.GET("/mine", ctl.Mine)
	group.POST("/verify", ctl.Verify)
	return r, st
}

func studentClaims(messID primitive.ObjectID) *utils.Claims {
	return &utils.Claims{
		Role:     "STUDENT",
		MessID:   messID.Hex(),
		Degree:   "CS",
		Semester: 3,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: primitive.NewObjectID().Hex(),
		},
	}
}

// seedActiveEvent creates an event spanning the wall clock, since the
// routed services run on real time.
func seedActiveEvent(t *testing.T, st *store.Store, messID primitive.ObjectID) {
	t.Helper()
	events := services.NewEventService(st, zap.NewNop())
	start := time.Now().Add(-time.Minute)
	_, err := events.Create(context.Background(), messID, services.CreateEventInput{
		Title:     "Lunch",
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
		Slots: []services.SlotInput{{
			Degree:    "CS",
			StartTime: start,
			EndTime:   start.Add(time.Hour),
		}},
	})
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, utils.Envelope) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env utils.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response not an envelope: %v\n%s", err, rec.Body.String())
	}
	return rec, env
}

func TestIssueEndpoint(t *testing.T) {
	messID := primitive.NewObjectID()
	r, st := tokenRouter(t, studentClaims(messID))
	seedActiveEvent(t, st, messID)

	rec, env := doJSON(t, r, http.MethodPost, "/api/tokens", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201\n%s", rec.Code, rec.Body.String())
	}
	if !env.Success || env.Message != "Token generated successfully" || env.StatusCode != 201 {
		t.Errorf("envelope = %+v", env)
	}
	data, ok := env.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data is not an object: %v", env.Data)
	}
	if id, _ := data["tokenId"].(string); id == "" {
		t.Errorf("data missing tokenId: %v", env.Data)
	}
}

func TestIssueEndpointNoEvent(t *testing.T) {
	r, _ := tokenRouter(t, studentClaims(primitive.NewObjectID()))

	rec, env := doJSON(t, r, http.MethodPost, "/api/tokens", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if env.Success || env.Message != "No active event available" {
		t.Errorf("envelope = %+v", env)
	}
}

func TestIssueEndpointUnauthenticated(t *testing.T) {
	r, _ := tokenRouter(t, nil)

	rec, env := doJSON(t, r, http.MethodPost, "/api/tokens", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if env.Success {
		t.Errorf("envelope = %+v", env)
	}
}

func TestVerifyEndpointMissingTokenID(t *testing.T) {
	r, _ := tokenRouter(t, studentClaims(primitive.NewObjectID()))

	rec, env := doJSON(t, r, http.MethodPost, "/api/tokens/verify", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env.Message != "Token ID is required" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestVerifyEndpoint(t *testing.T) {
	messID := primitive.NewObjectID()
	claims := studentClaims(messID)
	r, st := tokenRouter(t, claims)
	seedActiveEvent(t, st, messID)

	_, issued := doJSON(t, r, http.MethodPost, "/api/tokens", "")
	tokenID := issued.Data.(map[string]interface{})["tokenId"].(string)

	rec, env := doJSON(t, r, http.MethodPost, "/api/tokens/verify", `{"tokenId":"`+tokenID+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", rec.Code, rec.Body.String())
	}
	if !env.Success || env.Message != "Token verified successfully" {
		t.Errorf("envelope = %+v", env)
	}

	rec, env = doJSON(t, r, http.MethodPost, "/api/tokens/verify", `{"tokenId":"`+tokenID+`"}`)
	if rec.Code != http.StatusConflict || env.Message != "Token already used" {
		t.Errorf("second verify: status=%d envelope=%+v", rec.Code, env)
	}
}

func TestMineEndpoint(t *testing.T) {
	messID := primitive.NewObjectID()
	r, st := tokenRouter(t, studentClaims(messID))
	seedActiveEvent(t, st, messID)

	rec, env := doJSON(t, r, http.MethodGet, "/api/tokens/mine", "")
	if rec.Code != http.StatusNotFound || env.Message != "No token generated yet" {
		t.Fatalf("before issue: status=%d envelope=%+v", rec.Code, env)
	}

	doJSON(t, r, http.MethodPost, "/api/tokens", "")
	rec, env = doJSON(t, r, http.MethodGet, "/api/tokens/mine", "")
	if rec.Code != http.StatusOK || env.Message != "Token fetched successfully" {
		t.Errorf("after issue: status=%d envelope=%+v", rec.Code, env)
	}
}
