package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pitchlab/salescoach/adapters/broker"
	"github.com/pitchlab/salescoach/adapters/hasher"
	adapterhttp "github.com/pitchlab/salescoach/adapters/http"
	"github.com/pitchlab/salescoach/adapters/llm"
	"github.com/pitchlab/salescoach/adapters/retriever"
	"github.com/pitchlab/salescoach/adapters/store"
	"github.com/pitchlab/salescoach/adapters/tts"
	"github.com/pitchlab/salescoach/adapters/websocket"
	"github.com/pitchlab/salescoach/config"
	"github.com/pitchlab/salescoach/domain"
	"github.com/pitchlab/salescoach/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	ctx := context.Background()

	// genai rejects an empty API key at construction, but a missing key is
	// a per-request 500, not a startup failure.
	var gemini domain.Llm
	if cfg.HasGeminiCredential() {
		client, err := llm.NewGeminiClient(ctx, cfg.GoogleAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("creating gemini client: %v", err)
		}
		gemini = client
	} else {
		log.Println("completions disabled: Gemini credential not configured")
	}

	var embedder domain.Embedder
	var index domain.VectorIndex
	if cfg.HasGeminiCredential() && cfg.PineconeAPIKey != "" && cfg.PineconeIndexHost != "" {
		e, err := llm.NewGeminiEmbedder(ctx, cfg.GoogleAPIKey, cfg.EmbeddingModel)
		if err != nil {
			log.Fatalf("creating gemini embedder: %v", err)
		}
		embedder = e
		index = retriever.NewPineconeIndex(cfg.PineconeIndexHost, cfg.PineconeAPIKey)
	} else {
		log.Println("retrieval disabled: Pinecone or Gemini credentials not configured")
	}

	googleTTS, err := tts.NewGoogleTTS(ctx)
	if err != nil {
		log.Fatalf("creating tts client: %v", err)
	}

	conversationStore, err := store.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("opening conversation store: %v", err)
	}
	defer conversationStore.Close()

	messageBroker := broker.NewChannelBroker()
	defer messageBroker.Close()

	feedbackSvc := usecase.NewFeedbackService(gemini, hasher.New(), messageBroker)
	chatSvc := usecase.NewChatService(gemini, embedder, index, cfg.RetrievalTopK)
	voiceSvc := usecase.NewVoiceChatService(gemini, googleTTS)

	server := websocket.NewServer(chatSvc, messageBroker)
	go server.RunWebsocketHub()

	handler := adapterhttp.NewHandler(cfg, feedbackSvc, chatSvc, voiceSvc, conversationStore)

	e := echo.New()

	// Security middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20))) // 20 requests per minute

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"}, // In production, specify exact origins
		AllowMethods: []string{echo.GET, echo.POST, echo.PATCH, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			"X-API-Key",
			"Content-Length",
		},
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	e.Use(middleware.BodyLimit("1MB"))

	// WebSocket training sessions (JWT required)
	wsGroup := e.Group("/ws")
	wsGroup.Use(handler.JWTMiddleware)
	wsGroup.GET("", server.Handler)

	api := e.Group("/api/v1")

	// Public endpoints
	api.GET("/health", handler.HealthCheck)
	api.POST("/auth/token", handler.GenerateJWT)
	api.GET("/scenarios", handler.ListScenarios)
	api.GET("/scenarios/:id", handler.GetScenario)

	// Model-backed endpoints
	ai := api.Group("")
	ai.Use(handler.RateLimitMiddleware)
	ai.POST("/feedback", handler.GenerateFeedback)
	ai.POST("/chat", handler.Chat)
	ai.POST("/voicechat", handler.VoiceChat)
	ai.POST("/onboardingchat", handler.OnboardingChat)

	// Conversation store (JWT required)
	conversations := api.Group("/conversations")
	conversations.Use(handler.JWTMiddleware)
	conversations.POST("", handler.CreateConversation)
	conversations.GET("", handler.ListConversations)
	conversations.PATCH("/:id", handler.RenameConversation)
	conversations.DELETE("/:id", handler.DeleteConversation)
	conversations.POST("/:id/messages", handler.AppendMessage)
	conversations.GET("/:id/messages", handler.ListMessages)

	log.Printf("Starting server on %s", cfg.ListenAddr)
	log.Fatal(e.Start(cfg.ListenAddr))
}
