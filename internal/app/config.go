package app

import (
	"strings"
	"time"

	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/utils"
)

type Config struct {
	Environment   string
	JWTSecretKey  string
	AuthEnabled   bool
	AdminUsername string
	AdminPassword string
	ClientTokens  []string
	CORSOrigins   []string

	ContextFieldSeedPath string
	FeatureCacheTTL      time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Environment:          utils.GetEnv("ENVIRONMENT", "development", log),
		JWTSecretKey:         utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		AuthEnabled:          utils.GetEnvAsBool("AUTH_ENABLED", true, log),
		AdminUsername:        utils.GetEnv("ADMIN_USERNAME", "admin", log),
		AdminPassword:        utils.GetEnv("ADMIN_PASSWORD", "admin", log),
		ClientTokens:         splitList(utils.GetEnv("CLIENT_API_TOKENS", "", log)),
		CORSOrigins:          splitList(utils.GetEnv("CORS_ORIGINS", "http://localhost:3000", log)),
		ContextFieldSeedPath: utils.GetEnv("CONTEXT_FIELD_SEED_PATH", "", log),
		FeatureCacheTTL:      time.Duration(utils.GetEnvAsInt("FEATURE_CACHE_TTL_SECONDS", 60, log)) * time.Second,
	}
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
