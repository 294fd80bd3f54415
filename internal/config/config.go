// file: internal/config/config.go
// version: 2.1.0
// guid: 7b8c9d0e-1f2a-3b4c-5d6e-7f8a9b0c1d2e

package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	InputPath         string
	OutputPDF         string
	MissingReport     string
	CoversDir         string // "" disables writing covers to disk
	Workers           int
	LookupTimeout     time.Duration
	RequestsPerSecond float64 // per cover source, 0 disables limiting

	OpenLibraryCoversBaseURL string
	GoogleBooksBaseURL       string
	GoogleBooksAPIKey        string

	MetricsFile string
	Progress    bool
	Verbose     bool
}

var AppConfig Config

// EnvPrefix is prepended to every configuration key read from the environment.
const EnvPrefix = "READING_REPORT"

// Defaults
const (
	DefaultInputPath                = "goodreads_library_export.csv"
	DefaultOutputPDF                = "goodreads_reading_report.pdf"
	DefaultMissingReport            = "missing_books_report.txt"
	DefaultCoversDir                = "book_covers"
	DefaultWorkers                  = 4
	DefaultLookupTimeout            = 10 * time.Second
	DefaultRequestsPerSecond        = 5.0
	DefaultOpenLibraryCoversBaseURL = "https://covers.openlibrary.org"
	DefaultGoogleBooksBaseURL       = "https://www.googleapis.com/books/v1"
)

// InitConfig initializes the application configuration
func InitConfig() {
	// Set defaults
	viper.SetDefault("input", DefaultInputPath)
	viper.SetDefault("output_pdf", DefaultOutputPDF)
	viper.SetDefault("missing_report", DefaultMissingReport)
	viper.SetDefault("covers_dir", DefaultCoversDir)
	viper.SetDefault("workers", DefaultWorkers)
	viper.SetDefault("lookup_timeout", DefaultLookupTimeout)
	viper.SetDefault("requests_per_second", DefaultRequestsPerSecond)
	viper.SetDefault("openlibrary_covers_base_url", DefaultOpenLibraryCoversBaseURL)
	viper.SetDefault("google_books_base_url", DefaultGoogleBooksBaseURL)
	viper.SetDefault("progress", true)
	viper.SetDefault("verbose", false)

	// Prefixed names first, then the names the clients have always honoured
	_ = viper.BindEnv("openlibrary_covers_base_url", EnvPrefix+"_OPENLIBRARY_COVERS_BASE_URL", "OPENLIBRARY_COVERS_BASE_URL")
	_ = viper.BindEnv("google_books_base_url", EnvPrefix+"_GOOGLE_BOOKS_BASE_URL", "GOOGLE_BOOKS_BASE_URL")
	_ = viper.BindEnv("google_books_api_key", EnvPrefix+"_GOOGLE_BOOKS_API_KEY", "GOOGLE_BOOKS_API_KEY")

	AppConfig = Config{
		InputPath:                viper.GetString("input"),
		OutputPDF:                viper.GetString("output_pdf"),
		MissingReport:            viper.GetString("missing_report"),
		CoversDir:                viper.GetString("covers_dir"),
		Workers:                  viper.GetInt("workers"),
		LookupTimeout:            viper.GetDuration("lookup_timeout"),
		RequestsPerSecond:        viper.GetFloat64("requests_per_second"),
		OpenLibraryCoversBaseURL: viper.GetString("openlibrary_covers_base_url"),
		GoogleBooksBaseURL:       viper.GetString("google_books_base_url"),
		GoogleBooksAPIKey:        viper.GetString("google_books_api_key"),
		MetricsFile:              viper.GetString("metrics_file"),
		Progress:                 viper.GetBool("progress"),
		Verbose:                  viper.GetBool("verbose"),
	}

	// Normalize
	if AppConfig.Workers < 1 {
		AppConfig.Workers = 1
	}
	if AppConfig.LookupTimeout <= 0 {
		AppConfig.LookupTimeout = DefaultLookupTimeout
	}
	if AppConfig.RequestsPerSecond < 0 {
		AppConfig.RequestsPerSecond = 0
	}
}
