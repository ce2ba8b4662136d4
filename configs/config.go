package config

import "os"

type Config struct {
	FacebookAppID       string
	FacebookAppSecret   string
	FacebookRedirectURI string
	GraphBaseURL        string
	PostgresURI         string
	RedisURI            string
	FrontendURL         string
	SecretKey           string
	CookieName          string
	AdminName           string
	AdminPassword       string
	AdminBusinessID     string
	AdminBusinessToken  string
}

func LoadConfig() *Config {
	return &Config{
		FacebookAppID:       getEnv("FACEBOOK_APP_ID", ""),
		FacebookAppSecret:   getEnv("FACEBOOK_APP_SECRET", ""),
		FacebookRedirectURI: getEnv("FACEBOOK_REDIRECT_URI", "http://localhost:3000/login/callback"),
		GraphBaseURL:        getEnv("GRAPH_BASE_URL", "https://graph.facebook.com/v19.0"),
		PostgresURI:         getEnv("POSTGRES_URI", ""),
		RedisURI:            getEnv("REDIS_URI", ""),
		FrontendURL:         getEnv("FRONTEND_URL", "http://localhost:5173"),
		SecretKey:           getEnv("SECRET_KEY", ""),
		CookieName:          getEnv("COOKIE_NAME", "pageflow_session"),
		AdminName:           getEnv("ADMIN_NAME", "Admin"),
		AdminPassword:       getEnv("ADMIN_PASSWORD", ""),
		AdminBusinessID:     getEnv("ADMIN_BUSINESS_ID", ""),
		AdminBusinessToken:  getEnv("ADMIN_BUSINESS_TOKEN", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
