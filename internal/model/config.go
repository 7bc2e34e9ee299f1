package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds all reviewlens settings
type Config struct {
	Data        DataConfig        `yaml:"data" mapstructure:"data"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	WordCloud   WordCloudConfig   `yaml:"wordcloud" mapstructure:"wordcloud"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
}

// DataConfig locates the input artifacts
type DataConfig struct {
	Reviews       string `yaml:"reviews" mapstructure:"reviews"`               // Cleaned reviews CSV
	Companies     string `yaml:"companies" mapstructure:"companies"`           // Company feature CSV
	Terms         string `yaml:"terms" mapstructure:"terms"`                   // Cluster terms JSON (optional)
	SQLite        string `yaml:"sqlite" mapstructure:"sqlite"`                 // If set, read all three tables from this database instead
	ClusterPrefix string `yaml:"cluster_prefix" mapstructure:"cluster_prefix"` // Company columns carrying cluster labels
	TermsColumn   string `yaml:"terms_column" mapstructure:"terms_column"`     // Cluster column used for the terms lookup
}

// ServerConfig configures the HTTP dashboard
type ServerConfig struct {
	Addr              string        `yaml:"addr" mapstructure:"addr"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"` // Per client, 0 disables limiting
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	MaxConnections    int           `yaml:"max_connections" mapstructure:"max_connections"` // Concurrent connections, 0 is unlimited
}

// CacheConfig configures the rendered word-cloud cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// WordCloudConfig controls term selection and layout
type WordCloudConfig struct {
	Width       int      `yaml:"width" mapstructure:"width"`
	Height      int      `yaml:"height" mapstructure:"height"`
	MaxWords    int      `yaml:"max_words" mapstructure:"max_words"`
	MinFontSize int      `yaml:"min_font_size" mapstructure:"min_font_size"`
	MaxFontSize int      `yaml:"max_font_size" mapstructure:"max_font_size"`
	Background  string   `yaml:"background" mapstructure:"background"`
	Stopwords   []string `yaml:"stopwords,omitempty" mapstructure:"stopwords"` // Added to the built-in list
}

// OutputConfig controls CLI output
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// ConcurrencyConfig bounds the export worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Reviews:       "clean_reviews.csv",
			Companies:     "company_df.csv",
			Terms:         "cluster_terms.json",
			ClusterPrefix: "cluster_",
			TermsColumn:   "cluster_kmeans",
		},
		Server: ServerConfig{
			Addr:              ":8501",
			RequestsPerSecond: 20,
			Burst:             40,
			ShutdownTimeout:   5 * time.Second,
			MaxConnections:    256,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultCacheDir(),
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		WordCloud: WordCloudConfig{
			Width:       800,
			Height:      400,
			MaxWords:    200,
			MinFontSize: 10,
			MaxFontSize: 72,
			Background:  "white",
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
	}
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "reviewlens-cache")
	}
	return filepath.Join(home, ".reviewlens", "cache")
}
