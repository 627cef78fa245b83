package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != ModeStdio {
		t.Errorf("Expected default mode to be 'stdio', got '%s'", cfg.Mode)
	}
	if cfg.Host != DefaultHost {
		t.Errorf("Expected default host to be '%s', got '%s'", DefaultHost, cfg.Host)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("Expected default port to be %d, got %d", DefaultPort, cfg.Port)
	}
	if cfg.ServerName != "pdf-extract-server" {
		t.Errorf("Expected default server name to be 'pdf-extract-server', got '%s'", cfg.ServerName)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("Expected default log level to be 'info', got '%s'", cfg.LogLevel)
	}
	if cfg.MaxFileSize != DefaultMaxFileSize {
		t.Errorf("Expected default max file size to be 100MB, got %d", cfg.MaxFileSize)
	}
	if cfg.QueueWorkers != DefaultQueueWorkers {
		t.Errorf("Expected default queue workers to be %d, got %d", DefaultQueueWorkers, cfg.QueueWorkers)
	}
	if cfg.QueueBacklog != DefaultQueueBacklog {
		t.Errorf("Expected default queue backlog to be %d, got %d", DefaultQueueBacklog, cfg.QueueBacklog)
	}
	if cfg.JobTimeout != DefaultJobTimeout {
		t.Errorf("Expected default job timeout to be %v, got %v", DefaultJobTimeout, cfg.JobTimeout)
	}
	if cfg.OCRLanguage != DefaultOCRLanguage {
		t.Errorf("Expected default OCR language to be '%s', got '%s'", DefaultOCRLanguage, cfg.OCRLanguage)
	}
	if cfg.InboxDirectory != "" {
		t.Errorf("Expected inbox to be disabled by default, got '%s'", cfg.InboxDirectory)
	}

	currentDir, _ := os.Getwd()
	if cfg.DocumentDirectory != currentDir {
		t.Errorf("Expected default document directory to be '%s', got '%s'", currentDir, cfg.DocumentDirectory)
	}
}

// validConfig returns a config that passes validation, rooted in a temp dir.
func validConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		Mode:              ModeStdio,
		Host:              DefaultHost,
		Port:              DefaultPort,
		DocumentDirectory: t.TempDir(),
		QueueWorkers:      2,
		QueueBacklog:      10,
		JobTimeout:        time.Minute,
		MaxFileSize:       1024,
		OCRLanguage:       "eng",
		LogLevel:          "info",
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid stdio config", func(c *Config) {}, false},
		{"valid server config", func(c *Config) { c.Mode = ModeServer }, false},
		{"invalid mode", func(c *Config) { c.Mode = "invalid" }, true},
		{"port too low in server mode", func(c *Config) { c.Mode = ModeServer; c.Port = 0 }, true},
		{"port too high in server mode", func(c *Config) { c.Mode = ModeServer; c.Port = 70000 }, true},
		{"port ignored in stdio mode", func(c *Config) { c.Port = 0 }, false},
		{"empty document directory", func(c *Config) { c.DocumentDirectory = "" }, true},
		{"zero workers", func(c *Config) { c.QueueWorkers = 0 }, true},
		{"zero backlog", func(c *Config) { c.QueueBacklog = 0 }, true},
		{"zero job timeout", func(c *Config) { c.JobTimeout = 0 }, true},
		{"invalid log level", func(c *Config) { c.LogLevel = "trace" }, true},
		{"zero max file size", func(c *Config) { c.MaxFileSize = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidateCreatesDirectories(t *testing.T) {
	parent := t.TempDir()

	cfg := validConfig(t)
	cfg.DocumentDirectory = filepath.Join(parent, "docs")
	cfg.InboxDirectory = filepath.Join(parent, "inbox")
	cfg.AnnotationDirectory = filepath.Join(parent, "annotations")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Config.Validate() failed: %v", err)
	}

	for _, dir := range []string{cfg.DocumentDirectory, cfg.InboxDirectory, cfg.AnnotationDirectory} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("directory %s should have been created", dir)
		}
	}
}

func TestConfigAddress(t *testing.T) {
	cfg := &Config{Host: "192.168.1.1", Port: 9090}

	if got := cfg.Address(); got != "192.168.1.1:9090" {
		t.Errorf("Config.Address() = %v, want 192.168.1.1:9090", got)
	}
}

func TestConfigIsDebug(t *testing.T) {
	tests := []struct {
		logLevel string
		want     bool
	}{
		{"debug", true},
		{"info", false},
		{"warn", false},
		{"error", false},
	}

	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.logLevel}
		if got := cfg.IsDebug(); got != tt.want {
			t.Errorf("IsDebug() with %s = %v, want %v", tt.logLevel, got, tt.want)
		}
	}
}

func TestConfigString(t *testing.T) {
	cfg := &Config{
		Mode:              ModeServer,
		Host:              "localhost",
		Port:              8080,
		DocumentDirectory: "/home/user/pdfs",
		QueueWorkers:      4,
		LogLevel:          "debug",
		MaxFileSize:       1024,
	}

	result := cfg.String()
	for _, substr := range []string{
		"Mode: server",
		"Host: localhost",
		"Port: 8080",
		"DocumentDirectory: /home/user/pdfs",
		"Workers: 4",
		"LogLevel: debug",
		"MaxFileSize: 1024",
	} {
		if !strings.Contains(result, substr) {
			t.Errorf("Config.String() missing %q\nGot: %s", substr, result)
		}
	}
}

func TestConfigValidateLogLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		t.Run("valid_"+level, func(t *testing.T) {
			cfg := validConfig(t)
			cfg.LogLevel = level
			if err := cfg.Validate(); err != nil {
				t.Errorf("Config.Validate() should accept log level '%s', got error: %v", level, err)
			}
		})
	}

	for _, level := range []string{"DEBUG", "INFO", "trace", "fatal", ""} {
		t.Run("invalid_"+level, func(t *testing.T) {
			cfg := validConfig(t)
			cfg.LogLevel = level
			if err := cfg.Validate(); err == nil {
				t.Errorf("Config.Validate() should reject log level '%s'", level)
			}
		})
	}
}

func TestConfigModeChecks(t *testing.T) {
	server := &Config{Mode: ModeServer}
	stdio := &Config{Mode: ModeStdio}

	if !server.IsServerMode() || server.IsStdioMode() {
		t.Error("server mode flags wrong")
	}
	if !stdio.IsStdioMode() || stdio.IsServerMode() {
		t.Error("stdio mode flags wrong")
	}
}
