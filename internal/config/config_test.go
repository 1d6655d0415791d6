package config

import "testing"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CIRCLE_API_KEY", "test-key")
	t.Setenv("APP_ID", "app-1")
	t.Setenv("MAIL_ACCOUNT", "sphere@example.com")
	t.Setenv("MAIL_PASSWORD", "password")
}

func TestNewServerConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := NewServerConfig()
	if err != nil {
		t.Fatalf("NewServerConfig() error = %v", err)
	}

	if cfg.Environment != "dev" {
		t.Errorf("Environment = %q, want dev", cfg.Environment)
	}
	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
	if cfg.CircleBaseURL != "https://api.circle.com" {
		t.Errorf("CircleBaseURL = %q", cfg.CircleBaseURL)
	}
	if cfg.SMTPPort != 587 {
		t.Errorf("SMTPPort = %d, want 587", cfg.SMTPPort)
	}
	if cfg.AppID != "app-1" {
		t.Errorf("AppID = %q, want app-1", cfg.AppID)
	}
}

func TestNewServerConfigRequiresAPIKey(t *testing.T) {
	t.Setenv("APP_ID", "app-1")
	t.Setenv("MAIL_ACCOUNT", "sphere@example.com")
	t.Setenv("MAIL_PASSWORD", "password")

	if _, err := NewServerConfig(); err == nil {
		t.Fatal("NewServerConfig() error = nil, want missing CIRCLE_API_KEY error")
	}
}

func TestNewServerConfigValidation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "PORT", "70000"},
		{"invalid environment", "ENVIRONMENT", "production"},
		{"smtp port out of range", "SMTP_PORT", "0"},
		{"request size too small", "MAX_REQUEST_SIZE", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := NewServerConfig(); err == nil {
				t.Fatalf("NewServerConfig() error = nil, want validation error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
