package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD                         = false
	LOG_LEVEL_PROD                  = slog.LevelInfo
	FALLBACK_REDIS_TO_INTERNALSTORE = true //if redis init fails, fall back to the internal in-memory stores
	TRACE_ID_KEY                    = "traceId"
	RATE_LIMIT_PER_SECOND           = 2
	BURST_RATE_LIMIT_PER_SECOND     = 5

	//extraction pipeline
	//token estimate is ceil(chars / CharsPerToken); chunk boundary tests depend on this ratio
	CharsPerToken            = 4
	ChunkTokenBudget         = 6000
	ChunkOverlapTokens       = 200
	ChunkWorkerLimit         = 4
	MaxUploadBytes     int64 = 32 << 20 //32mb

	//llm calls
	LLMCallTimeout          = 30 * time.Second
	LLMMaxRetries           = 1 //one re-request after a bad response, then fallback
	LLMRetryBackoff         = 2 * time.Second
	GeminiModelName         = "gemini-2.5-flash-lite-preview-09-2025"
	OpenAIModelName         = "gpt-4o-mini"
	ModelTemperature        = float32(0.2)
	ExtractionSystemContext = "You extract structured marketing-brief fields from raw document text. Respond with strict JSON matching the given schema, no narration, no markdown."
	GenerationSystemContext = "You are a senior campaign strategist. Respond with strict JSON matching the given schema, no narration, no markdown."

	//generation
	CopyVariantsPerMotivation = 3
	MotivationTargetCount     = 5

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisJobStore      = 0
	RedisWorkflowStore = 1

	//redis timeouts
	RedisJobStoreTTL      = 24 * time.Hour
	RedisWorkflowStoreTTL = 7 * 24 * time.Hour
)

var (
	AuthToken    = os.Getenv("AUTH_TOKEN")
	NoAuthBypass = os.Getenv("AUTH_TOKEN") == ""

	RedisPassword = os.Getenv("REDIS_PASSWORD")

	GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	LLMProvider  = os.Getenv("LLM_PROVIDER") //"gemini" (default) or "openai"

	//render farm handoff endpoint; empty means the handoff payload is only logged
	RenderEndpoint = os.Getenv("RENDER_ENDPOINT")
)
