package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultOriginalsSubDir  = "images/originals"
	DefaultThumbnailsSubDir = "images/thumbnails"
	DefaultIndexFile        = "data.json"
)

const (
	defaultThumbnailQueueSize  = 200
	defaultNumThumbnailWorkers = 4
	defaultThumbnailMaxSize    = 500
	defaultIndexFetchTimeout   = 10
	defaultPort                = 8080
)

type Config struct {
	// static site root (index.html, data.json and the image trees)
	SiteRoot string

	// index resource; IndexSource is a path or http(s) URL and defaults to
	// SiteRoot/IndexFile
	IndexFile         string
	IndexSource       string
	IndexFetchTimeout time.Duration

	// image trees, relative to SiteRoot
	OriginalsSubDir  string
	ThumbnailsSubDir string

	// thumbnail generation settings
	ThumbnailMaxSize int

	// worker settings
	ThumbnailQueueSize  int
	NumThumbnailWorkers int

	// http settings
	BasePath           string // site prefix, e.g. "/Astrogalerry/"
	Port               int
	CORSAllowedOrigins []string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func LoadConfig() (Config, error) {
	root := getEnvOrDefault("SITE_ROOT", filepath.Join(".", "public"))
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for site root '%s': %w", root, err)
	}

	indexFile := getEnvOrDefault("INDEX_FILE", DefaultIndexFile)
	if strings.ContainsAny(indexFile, `/\`) {
		return Config{}, fmt.Errorf("INDEX_FILE must be a plain file name, got '%s'", indexFile)
	}
	indexSource := getEnvOrDefault("INDEX_SOURCE", filepath.Join(absRoot, indexFile))

	cfg := Config{
		SiteRoot:            absRoot,
		IndexFile:           indexFile,
		IndexSource:         indexSource,
		IndexFetchTimeout:   time.Duration(getEnvIntOrDefault("INDEX_FETCH_TIMEOUT_SECONDS", defaultIndexFetchTimeout)) * time.Second,
		OriginalsSubDir:     getEnvOrDefault("ORIGINALS_SUBDIR", DefaultOriginalsSubDir),
		ThumbnailsSubDir:    getEnvOrDefault("THUMBNAILS_SUBDIR", DefaultThumbnailsSubDir),
		ThumbnailMaxSize:    getEnvIntOrDefault("THUMBNAIL_MAX_SIZE", defaultThumbnailMaxSize),
		ThumbnailQueueSize:  getEnvIntOrDefault("THUMBNAIL_QUEUE_SIZE", defaultThumbnailQueueSize),
		NumThumbnailWorkers: getEnvIntOrDefault("NUM_THUMBNAIL_WORKERS", defaultNumThumbnailWorkers),
		BasePath:            getEnvOrDefault("BASE_PATH", "/"),
		Port:                getEnvIntOrDefault("PORT", defaultPort),
		CORSAllowedOrigins:  getEnvListOrDefault("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
	}

	if filepath.Clean(cfg.OriginalsSubDir) == filepath.Clean(cfg.ThumbnailsSubDir) {
		return Config{}, fmt.Errorf("originals and thumbnails must live in different directories, both are '%s'", cfg.OriginalsSubDir)
	}

	return cfg, nil
}

// IndexPath is the on-disk location the server publishes as the index
// resource.
func (c Config) IndexPath() string {
	return filepath.Join(c.SiteRoot, c.IndexFile)
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
