package config

import "os"

type Config struct {
	PostgresURI         string
	FacebookAppID       string
	FacebookAppSecret   string
	FacebookRedirectURI string
	GraphAPIBase        string
	SecretKey           string
	CookieName          string
	FrontendURL         string
}

func LoadConfig() *Config {
	return &Config{
		PostgresURI:         getEnv("POSTGRES_URI", ""),
		FacebookAppID:       getEnv("FB_APP_ID", ""),
		FacebookAppSecret:   getEnv("FB_APP_SECRET", ""),
		FacebookRedirectURI: getEnv("FB_REDIRECT_URI", "http://localhost:3000/auth/facebook/callback"),
		GraphAPIBase:        getEnv("GRAPH_API_BASE", "https://graph.facebook.com/v18.0"),
		SecretKey:           getEnv("SECRET_KEY", ""),
		CookieName:          getEnv("COOKIE_NAME", "fbh_session"),
		FrontendURL:         getEnv("FRONTEND_URL", "http://localhost:5173"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
