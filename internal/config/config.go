package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort         = 8080
	DefaultHost         = "127.0.0.1"
	DefaultLogLevel     = "info"
	DefaultMaxFileSize  = 100 * 1024 * 1024 // 100MB
	DefaultQueueWorkers = 2
	DefaultQueueBacklog = 100
	DefaultJobTimeout   = 5 * time.Minute
	DefaultOCRLanguage  = "eng"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the PDF extraction server
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Document configuration
	DocumentDirectory   string
	InboxDirectory      string // optional; watched for new PDFs when set
	AnnotationDirectory string

	// Queue configuration
	QueueWorkers int
	QueueBacklog int
	JobTimeout   time.Duration

	// Extraction configuration
	MaxFileSize int64
	OCRLanguage string

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:                ModeStdio, // stdio is the MCP-compatible default
		Host:                DefaultHost,
		Port:                DefaultPort,
		DocumentDirectory:   currentDir,
		AnnotationDirectory: filepath.Join(currentDir, ".annotations"),
		QueueWorkers:        DefaultQueueWorkers,
		QueueBacklog:        DefaultQueueBacklog,
		JobTimeout:          DefaultJobTimeout,
		MaxFileSize:         DefaultMaxFileSize,
		OCRLanguage:         DefaultOCRLanguage,
		Version:             "1.0.0",
		ServerName:          "pdf-extract-server",
		LogLevel:            DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	for _, dir := range []*string{&cfg.DocumentDirectory, &cfg.InboxDirectory, &cfg.AnnotationDirectory} {
		if *dir == "" {
			continue
		}
		if expanded, err := filepath.Abs(*dir); err == nil {
			*dir = expanded
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("PDF_EXTRACT")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.DocumentDirectory)
	viper.SetDefault("inbox", cfg.InboxDirectory)
	viper.SetDefault("annotations", cfg.AnnotationDirectory)
	viper.SetDefault("workers", cfg.QueueWorkers)
	viper.SetDefault("backlog", cfg.QueueBacklog)
	viper.SetDefault("jobtimeout", cfg.JobTimeout)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("ocrlanguage", cfg.OCRLanguage)
	viper.SetDefault("loglevel", cfg.LogLevel)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP review server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.DocumentDirectory, "Directory containing PDF documents")
	pflag.String("inbox", cfg.InboxDirectory, "Watched inbox directory; new PDFs are queued automatically")
	pflag.String("annotations", cfg.AnnotationDirectory, "Directory for annotation sidecar files")
	pflag.Int("workers", cfg.QueueWorkers, "Number of concurrent extraction workers")
	pflag.Int("backlog", cfg.QueueBacklog, "Maximum number of queued jobs")
	pflag.Duration("jobtimeout", cfg.JobTimeout, "Timeout for one extraction attempt")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	pflag.String("ocrlanguage", cfg.OCRLanguage, "OCR language(s), '+'-separated (requires an ocr build)")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "host", "port", "dir", "inbox", "annotations",
		"workers", "backlog", "jobtimeout", "maxfilesize", "ocrlanguage", "loglevel",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nPDF Extract Server - extraction, review and annotation of PDF documents\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                         "+
			"# stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/pdfs                     "+
			"# stdio mode with custom directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --dir=/path/to/pdfs       # review server mode\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --inbox=/path/to/inbox    # with watched inbox\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  PDF_EXTRACT_MODE         Server mode\n")
		fmt.Fprintf(os.Stderr, "  PDF_EXTRACT_HOST         Server host\n")
		fmt.Fprintf(os.Stderr, "  PDF_EXTRACT_PORT         Server port\n")
		fmt.Fprintf(os.Stderr, "  PDF_EXTRACT_DIR          Document directory\n")
		fmt.Fprintf(os.Stderr, "  PDF_EXTRACT_INBOX        Watched inbox directory\n")
		fmt.Fprintf(os.Stderr, "  PDF_EXTRACT_ANNOTATIONS  Annotation directory\n")
		fmt.Fprintf(os.Stderr, "  PDF_EXTRACT_WORKERS      Concurrent extraction workers\n")
		fmt.Fprintf(os.Stderr, "  PDF_EXTRACT_BACKLOG      Maximum queued jobs\n")
		fmt.Fprintf(os.Stderr, "  PDF_EXTRACT_JOBTIMEOUT   Timeout per extraction attempt\n")
		fmt.Fprintf(os.Stderr, "  PDF_EXTRACT_MAXFILESIZE  Maximum file size\n")
		fmt.Fprintf(os.Stderr, "  PDF_EXTRACT_OCRLANGUAGE  OCR language(s)\n")
		fmt.Fprintf(os.Stderr, "  PDF_EXTRACT_LOGLEVEL     Log level\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.DocumentDirectory = viper.GetString("dir")
	cfg.InboxDirectory = viper.GetString("inbox")
	cfg.AnnotationDirectory = viper.GetString("annotations")
	cfg.QueueWorkers = viper.GetInt("workers")
	cfg.QueueBacklog = viper.GetInt("backlog")
	cfg.JobTimeout = viper.GetDuration("jobtimeout")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.OCRLanguage = viper.GetString("ocrlanguage")
	cfg.LogLevel = viper.GetString("loglevel")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.DocumentDirectory == "" {
		return errors.New("document directory cannot be empty")
	}

	// Create missing directories rather than failing on first run
	for _, dir := range []string{c.DocumentDirectory, c.InboxDirectory, c.AnnotationDirectory} {
		if dir == "" {
			continue
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, DefaultDirPerm); err != nil {
				return fmt.Errorf("cannot create directory %s: %w", dir, err)
			}
		} else if err != nil {
			return fmt.Errorf("cannot access directory %s: %w", dir, err)
		}
	}

	if c.QueueWorkers < 1 {
		return errors.New("queue workers must be at least 1")
	}
	if c.QueueBacklog < 1 {
		return errors.New("queue backlog must be at least 1")
	}
	if c.JobTimeout <= 0 {
		return errors.New("job timeout must be positive")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, DocumentDirectory: %s, Workers: %d, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.DocumentDirectory, c.QueueWorkers, c.LogLevel, c.MaxFileSize)
}

// IsServerMode returns true if the server is running in HTTP review mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
