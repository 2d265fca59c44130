package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/pitchlab/salescoach/config"
	"github.com/pitchlab/salescoach/domain"
	"github.com/pitchlab/salescoach/usecase"
	"github.com/pitchlab/salescoach/utils/log"
)

const (
	jwtExpiry      = 24 * time.Hour
	jwtIssuer      = "salescoach"
	requestTimeout = 30 * time.Second
	maxConcurrent  = 10
)

type Handler struct {
	cfg      *config.Config
	feedback *usecase.FeedbackService
	chat     *usecase.ChatService
	voice    *usecase.VoiceChatService
	store    domain.ConversationStore
	jwtSecret []byte
}

func NewHandler(
	cfg *config.Config,
	feedback *usecase.FeedbackService,
	chat *usecase.ChatService,
	voice *usecase.VoiceChatService,
	store domain.ConversationStore,
) *Handler {
	return &Handler{
		cfg:       cfg,
		feedback:  feedback,
		chat:      chat,
		voice:     voice,
		store:     store,
		jwtSecret: []byte(cfg.JWTSecret),
	}
}

type JWTClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// --- Feedback ---

// feedbackRequest keeps messages raw so a non-array value can be told
// apart from malformed entries: the former is a 400, the latter are
// dropped by the sanitizer.
type feedbackRequest struct {
	Messages json.RawMessage  `json:"messages"`
	Scenario *domain.Scenario `json:"scenario"`
}

type feedbackResponse struct {
	Feedback domain.FeedbackPayload `json:"feedback"`
}

// GenerateFeedback runs the coaching pipeline. Aside from a missing
// credential (500) and a non-array messages field (400), this endpoint
// always answers 200 with a schema-valid payload.
func (h *Handler) GenerateFeedback(c echo.Context) error {
	if !h.cfg.HasGeminiCredential() {
		return c.JSON(http.StatusInternalServerError, errorResponse{
			Error:   "Google Generative AI API key is not configured",
			Details: "Please set GOOGLE_GENERATIVE_AI_API_KEY environment variable",
		})
	}

	var req feedbackRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{
			Error: "Invalid messages format. Must be an array of messages.",
		})
	}

	messages, ok := decodeMessageArray(req.Messages)
	if !ok {
		return c.JSON(http.StatusBadRequest, errorResponse{
			Error: "Invalid messages format. Must be an array of messages.",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	userID, _ := c.Get("user_id").(string)
	result := h.feedback.Generate(ctx, userID, messages, req.Scenario)

	return c.JSON(http.StatusOK, feedbackResponse{Feedback: result.Feedback})
}

// decodeMessageArray tolerantly decodes the raw messages value. A value
// that is not a JSON array fails; entries that are not objects, or whose
// role/content have the wrong type, are dropped.
func decodeMessageArray(raw json.RawMessage) ([]domain.ChatMessage, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	// json.Unmarshal accepts a literal null into a slice; that is not an
	// array and must be rejected like any other non-array value.
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, false
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false
	}

	messages := make([]domain.ChatMessage, 0, len(entries))
	for _, entry := range entries {
		var candidate struct {
			Role    any `json:"role"`
			Content any `json:"content"`
		}
		if err := json.Unmarshal(entry, &candidate); err != nil {
			continue
		}
		role, okRole := candidate.Role.(string)
		content, okContent := candidate.Content.(string)
		if !okRole || !okContent {
			continue
		}
		messages = append(messages, domain.ChatMessage{
			Role:    domain.Role(role),
			Content: content,
		})
	}
	return messages, true
}

// --- Chat ---

type chatRequest struct {
	Messages json.RawMessage  `json:"messages"`
	Scenario *domain.Scenario `json:"scenario"`
}

type chatResponse struct {
	Text string `json:"text"`
}

func (h *Handler) Chat(c echo.Context) error {
	if !h.cfg.HasGeminiCredential() {
		return c.JSON(http.StatusInternalServerError, errorResponse{
			Error:   "Google Generative AI API key is not configured",
			Details: "Please set GOOGLE_GENERATIVE_AI_API_KEY environment variable",
		})
	}

	var req chatRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid messages format"})
	}
	messages, ok := decodeMessageArray(req.Messages)
	if !ok || len(messages) == 0 {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid messages format"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	text, err := h.chat.Reply(ctx, messages, nil)
	if err != nil {
		log.WithCtx(ctx).Error("chat reply failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}

	return c.JSON(http.StatusOK, chatResponse{Text: text})
}

// --- Voice chat ---

type voiceChatResponse struct {
	Text  string `json:"text"`
	Audio string `json:"audio"`
}

func (h *Handler) VoiceChat(c echo.Context) error {
	if !h.cfg.HasGeminiCredential() {
		return c.JSON(http.StatusInternalServerError, errorResponse{
			Error:   "Google Generative AI API key is not configured",
			Details: "Please set GOOGLE_GENERATIVE_AI_API_KEY environment variable",
		})
	}

	var req chatRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid messages format"})
	}
	messages, ok := decodeMessageArray(req.Messages)
	if !ok {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid messages format"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	reply, err := h.voice.Reply(ctx, messages, req.Scenario)
	if err != nil {
		if strings.Contains(err.Error(), "no user message") {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "No user message found"})
		}
		log.WithCtx(ctx).Error("voice chat failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorResponse{
			Error:   "Service temporarily unavailable",
			Details: err.Error(),
		})
	}

	return c.JSON(http.StatusOK, voiceChatResponse{
		Text:  reply.Text,
		Audio: base64.StdEncoding.EncodeToString(reply.Audio),
	})
}

// --- Onboarding chat ---

// OnboardingChat is the persona roleplay without speech synthesis; the
// first-run flow uses it before the voice surface is set up.
func (h *Handler) OnboardingChat(c echo.Context) error {
	if !h.cfg.HasGeminiCredential() {
		return c.JSON(http.StatusInternalServerError, errorResponse{
			Error:   "Google Generative AI API key is not configured",
			Details: "Please set GOOGLE_GENERATIVE_AI_API_KEY environment variable",
		})
	}

	var req chatRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid messages format"})
	}
	messages, ok := decodeMessageArray(req.Messages)
	if !ok {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid messages format"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	text, err := h.voice.ReplyText(ctx, messages, req.Scenario)
	if err != nil {
		if strings.Contains(err.Error(), "no user message") {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "No user message found"})
		}
		log.WithCtx(ctx).Error("onboarding chat failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}

	return c.JSON(http.StatusOK, chatResponse{Text: text})
}

// --- Scenarios ---

func (h *Handler) ListScenarios(c echo.Context) error {
	return c.JSON(http.StatusOK, usecase.Scenarios())
}

// GetScenario returns one scenario enriched with randomized business
// context, so repeated sessions of the same scenario differ.
func (h *Handler) GetScenario(c echo.Context) error {
	scenario, ok := usecase.FindScenario(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "scenario not found")
	}
	return c.JSON(http.StatusOK, usecase.EnhanceScenario(scenario, nil))
}

// --- Conversations ---

type createConversationRequest struct {
	Title string `json:"title"`
}

func (h *Handler) CreateConversation(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var req createConversationRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	conv, err := h.store.CreateConversation(c.Request().Context(), userID, req.Title)
	if err != nil {
		log.WithCtx(c.Request().Context()).Error("creating conversation", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create conversation")
	}
	return c.JSON(http.StatusCreated, conv)
}

func (h *Handler) ListConversations(c echo.Context) error {
	userID := c.Get("user_id").(string)

	conversations, err := h.store.ListConversations(c.Request().Context(), userID)
	if err != nil {
		log.WithCtx(c.Request().Context()).Error("listing conversations", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list conversations")
	}
	return c.JSON(http.StatusOK, conversations)
}

func (h *Handler) RenameConversation(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var req createConversationRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	err := h.store.RenameConversation(c.Request().Context(), userID, c.Param("id"), req.Title)
	if err == domain.ErrNotFound {
		return echo.NewHTTPError(http.StatusNotFound, "conversation not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to rename conversation")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DeleteConversation(c echo.Context) error {
	userID := c.Get("user_id").(string)

	err := h.store.DeleteConversation(c.Request().Context(), userID, c.Param("id"))
	if err == domain.ErrNotFound {
		return echo.NewHTTPError(http.StatusNotFound, "conversation not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete conversation")
	}
	return c.NoContent(http.StatusNoContent)
}

type appendMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (h *Handler) AppendMessage(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var req appendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid message")
	}
	role := domain.Role(req.Role)
	if (role != domain.UserRole && role != domain.AssistantRole) || strings.TrimSpace(req.Content) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "role must be user or assistant and content must be non-empty")
	}

	msg, err := h.store.AppendMessage(c.Request().Context(), userID, c.Param("id"), domain.ChatMessage{
		Role:    role,
		Content: req.Content,
	})
	if err == domain.ErrNotFound {
		return echo.NewHTTPError(http.StatusNotFound, "conversation not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to append message")
	}
	return c.JSON(http.StatusCreated, msg)
}

func (h *Handler) ListMessages(c echo.Context) error {
	userID := c.Get("user_id").(string)

	messages, err := h.store.ListMessages(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list messages")
	}
	return c.JSON(http.StatusOK, messages)
}

// --- Auth ---

type tokenRequest struct {
	UserID string `json:"user_id"`
}

// GenerateJWT issues a bearer token for a client that knows the service
// API key. Real identity lives in the hosted auth product; this endpoint
// exists for service-to-service and development use.
func (h *Handler) GenerateJWT(c echo.Context) error {
	if h.cfg.ServiceAPIKey == "" || c.Request().Header.Get("X-API-Key") != h.cfg.ServiceAPIKey {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	var req tokenRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.UserID) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	claims := &JWTClaims{
		UserID: req.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(jwtExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    jwtIssuer,
			Subject:   req.UserID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(h.jwtSecret)
	if err != nil {
		log.WithCtx(c.Request().Context()).Error("signing JWT", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"token": tokenString,
		"type":  "Bearer",
	})
}

// JWTMiddleware authenticates bearer tokens and stores the user identity
// in the request context.
func (h *Handler) JWTMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
		}

		token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return h.jwtSecret, nil
		})
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		}

		if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
			c.Set("user_id", claims.UserID)
			return next(c)
		}

		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token claims")
	}
}

// RateLimitMiddleware bounds concurrent in-flight requests per route group.
func (h *Handler) RateLimitMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	semaphore := make(chan struct{}, maxConcurrent)
	return func(c echo.Context) error {
		select {
		case semaphore <- struct{}{}:
			defer func() { <-semaphore }()
			return next(c)
		default:
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too many concurrent requests")
		}
	}
}

// HealthCheck reports service liveness.
func (h *Handler) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "salescoach",
	})
}
