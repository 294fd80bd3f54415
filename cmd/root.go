// file: cmd/root.go
// version: 2.0.0
// guid: 6a7b8c9d-0e1f-2a3b-4c5d-6e7f8a9b0c1d

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jdfalk/reading-report/internal/config"
	"github.com/jdfalk/reading-report/internal/covers"
	"github.com/jdfalk/reading-report/internal/logger"
	"github.com/jdfalk/reading-report/internal/pipeline"
)

var cfgFile string
var envFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reading-report",
	Short: "Build a PDF reading report from a Goodreads library export",
	Long: `Reading Report loads a Goodreads library export, finds cover art for
every book (Open Library, then Google Books, then a generated placeholder),
and renders a PDF with yearly statistics, charts and a cover gallery.

Books whose covers could not be found are listed in a separate text file.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd.Context())
	},
}

// initConfigCmd writes the effective configuration to a YAML file
var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write the current settings to a config file",
	Long: `Write the effective configuration (defaults, config file, environment and
flags combined) to a YAML file. The Google Books API key is never written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("path")
		force, _ := cmd.Flags().GetBool("force")
		if path == "" {
			path = config.DefaultConfigFilePath()
		}
		if err := config.SaveConfigFile(path, config.AppConfig, force); err != nil {
			return err
		}
		fmt.Printf("Configuration written to %s\n", path)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/"+config.DefaultConfigFileName+")")
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file to load into the environment if present")
	flags.StringP("input", "i", config.DefaultInputPath, "Goodreads library export (CSV)")
	flags.StringP("output", "o", config.DefaultOutputPDF, "PDF report to write")
	flags.String("missing-report", config.DefaultMissingReport, "text file listing books without found covers")
	flags.String("covers-dir", config.DefaultCoversDir, "directory to save resolved covers in (empty to skip)")
	flags.IntP("workers", "w", config.DefaultWorkers, "number of concurrent cover lookups")
	flags.Duration("lookup-timeout", config.DefaultLookupTimeout, "timeout for each cover service request")
	flags.Float64("requests-per-second", config.DefaultRequestsPerSecond, "request rate limit per cover service (0 for unlimited)")
	flags.String("google-books-api-key", "", "optional Google Books API key")
	flags.String("metrics-file", "", "write Prometheus metrics to this textfile after the run")
	flags.Bool("progress", true, "show a progress bar while resolving covers")
	flags.BoolP("verbose", "v", false, "enable debug logging")

	viper.BindPFlag("input", flags.Lookup("input"))
	viper.BindPFlag("output_pdf", flags.Lookup("output"))
	viper.BindPFlag("missing_report", flags.Lookup("missing-report"))
	viper.BindPFlag("covers_dir", flags.Lookup("covers-dir"))
	viper.BindPFlag("workers", flags.Lookup("workers"))
	viper.BindPFlag("lookup_timeout", flags.Lookup("lookup-timeout"))
	viper.BindPFlag("requests_per_second", flags.Lookup("requests-per-second"))
	viper.BindPFlag("google_books_api_key", flags.Lookup("google-books-api-key"))
	viper.BindPFlag("metrics_file", flags.Lookup("metrics-file"))
	viper.BindPFlag("progress", flags.Lookup("progress"))
	viper.BindPFlag("verbose", flags.Lookup("verbose"))

	initConfigCmd.Flags().String("path", "", "file to write (default is $HOME/"+config.DefaultConfigFileName+")")
	initConfigCmd.Flags().Bool("force", false, "overwrite an existing file")

	rootCmd.AddCommand(initConfigCmd)
	rootCmd.AddCommand(diagnosticsCmd)
}

func initConfig() {
	// Values already in the environment win over the dotenv file.
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			fmt.Printf("Warning: could not load %s: %v\n", envFile, err)
		}
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".reading-report")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}

	config.InitConfig()
	logger.SetVerbose(config.AppConfig.Verbose)
}

// runReport generates the report for config.AppConfig. Interrupts stop new
// lookups; lookups already in flight end at their timeout.
func runReport(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.AppConfig
	fmt.Printf("Reading library export: %s\n", cfg.InputPath)

	summary, err := pipeline.New(cfg).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Processed %d books\n", summary.Books)
	fmt.Printf("- Covers from Open Library: %d\n", summary.BySource[covers.SourceOpenLibrary])
	fmt.Printf("- Covers from Google Books: %d\n", summary.BySource[covers.SourceGoogleBooks])
	fmt.Printf("- Generated placeholders: %d\n", summary.BySource[covers.SourcePlaceholder])
	if summary.Render != nil && summary.Render.Substitutions > 0 {
		fmt.Printf("- Covers replaced at render time: %d\n", summary.Render.Substitutions)
	}
	fmt.Printf("\nReport saved to: %s\n", summary.OutputPDF)
	fmt.Printf("Missing covers listed in: %s (%d books)\n", summary.MissingReport, len(summary.Missing))
	return nil
}
