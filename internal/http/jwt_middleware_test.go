package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"feedback-bot/internal/repository"
	"feedback-bot/internal/service"
)

func adminRouter(jwtSvc *service.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AdminAuthMiddleware(zap.NewNop(), jwtSvc), func(c *gin.Context) {
		claims, ok := GetAdminClaims(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"admin": claims.Subject})
	})
	return r
}

func getWithToken(r http.Handler, path, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAdminAuthMiddleware_StoresAdminClaims(t *testing.T) {
	jwtSvc := service.NewJWTService("secret", 15*time.Minute)
	token, err := jwtSvc.IssueAdminToken("ops")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	rec := getWithToken(adminRouter(jwtSvc), "/protected", "bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["admin"] != "ops" {
		t.Fatalf("expected admin subject in context, got %v", body)
	}
}

func TestAdminAuthMiddleware_Rejections(t *testing.T) {
	jwtSvc := service.NewJWTService("secret", 15*time.Minute)
	foreign, err := service.NewJWTService("other-secret", 15*time.Minute).IssueAdminToken("ops")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	past := time.Now().UTC().Add(-time.Hour)
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, service.Claims{
		Role:      "admin",
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "feedback-bot",
			Subject:   "ops",
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Minute)),
		},
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}

	cases := []struct {
		name    string
		header  string
		wantErr string
	}{
		{name: "missing header", header: "", wantErr: "missing token"},
		{name: "wrong scheme", header: "Basic b3BzOnNlY3JldA==", wantErr: "missing token"},
		{name: "empty bearer", header: "Bearer   ", wantErr: "missing token"},
		{name: "foreign signature", header: "Bearer " + foreign, wantErr: "invalid token"},
		{name: "expired", header: "Bearer " + expired, wantErr: "token expired"},
	}
	r := adminRouter(jwtSvc)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := getWithToken(r, "/protected", tc.header)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if body := decodeBody(t, rec); body["error"] != tc.wantErr {
				t.Fatalf("expected error %q, got %v", tc.wantErr, body)
			}
		})
	}
}

func TestRequestLogIncludesAdminSubject(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	repo := repository.NewMemoryFeedbackRepository()
	feedbackSvc := service.NewFeedbackService(logger, repo, service.NewSentimentClassifier(stubScorer{}), nil)
	jwtSvc := service.NewJWTService("secret", time.Minute)
	r := NewRouter(logger, NewFeedbackHandler(logger, feedbackSvc), NewAnalyticsHandler(logger, service.NewAnalyticsService(logger, repo)), jwtSvc)

	token, err := jwtSvc.IssueAdminToken("ops")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if rec := getWithToken(r, "/results", "Bearer "+token); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := getWithToken(r, "/", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	entries := logs.FilterMessage("request").AllUntimed()
	if len(entries) != 2 {
		t.Fatalf("expected 2 request logs, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["admin"]; got != "ops" {
		t.Fatalf("expected admin subject on guarded request log, got %v", got)
	}
	if _, ok := entries[1].ContextMap()["admin"]; ok {
		t.Fatalf("expected no admin field on public request log")
	}
}
