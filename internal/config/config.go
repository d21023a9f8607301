package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	GinMode          string
	MongoURI         string
	MongoDatabase    string
	RabbitMQURI      string
	RabbitMQExchange string
	JWTSecret        string
	JWTExpiryHours   int
	LLMBaseURL       string
	LLMAPIKey        string
	LLMModel         string
	LLMSystemPrompt  string
	FEAddress        string
	ServiceName      string
}

var AppConfig *Config

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Port:             getEnvOrDefault("PORT", "5000"),
		GinMode:          getEnvOrDefault("GIN_MODE", "debug"),
		MongoURI:         getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:    getEnvOrDefault("MONGO_DATABASE", "learning_service"),
		RabbitMQURI:      getEnvOrDefault("RABBITMQ_URI", ""),
		RabbitMQExchange: getEnvOrDefault("RABBITMQ_EXCHANGE", ""),
		JWTSecret:        getEnvOrDefault("JWT_SECRET", "change-me"),
		JWTExpiryHours:   24,
		LLMBaseURL:       getEnvOrDefault("LLM_BASE_URL", "http://localhost:11434/v1"),
		LLMAPIKey:        getEnvOrDefault("LLM_API_KEY", ""),
		LLMModel:         getEnvOrDefault("LLM_MODEL", "gemini-2.0-flash"),
		LLMSystemPrompt:  getEnvOrDefault("LLM_SYSTEM_PROMPT", "You are a friendly study assistant for students."),
		FEAddress:        getEnvOrDefault("FE_ADDR", "http://localhost:3000"),
		ServiceName:      getEnvOrDefault("SERVICE_NAME", "learning-service"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
