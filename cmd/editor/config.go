package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/percenty/edit-agent/internal/editor"
)

// Config holds application configuration
type Config struct {
	OutputDir       string
	Headless        bool
	DBPath          string
	S3Bucket        string
	AWSRegion       string
	UploadReport    bool
	AccountFile     string
	MaxFailures     int
	ImageCap        int
	ContentTotalMax int
	DuplicatePhrase string
	BudgetMin       time.Duration
	BudgetMax       time.Duration
	Groups          editor.GroupNames
}

// LoadConfig loads configuration from environment variables and config file
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.percenty")

	defaults := editor.DefaultGroupNames()

	// Set defaults
	viper.SetDefault("output_dir", "./edit-results")
	viper.SetDefault("headless", false)
	viper.SetDefault("db_path", "./edit-agent.db")
	viper.SetDefault("upload_report", false)
	viper.SetDefault("max_failures", 10)
	viper.SetDefault("image_cap", 30)
	viper.SetDefault("content_total_max", 50)
	viper.SetDefault("duplicate_phrase", "")
	viper.SetDefault("budget_min_seconds", 5)
	viper.SetDefault("budget_max_seconds", 15)
	viper.SetDefault("groups.staging", defaults.Staging)
	viper.SetDefault("groups.staging_new", defaults.StagingNew)
	viper.SetDefault("groups.never_delete", defaults.NeverDelete)
	viper.SetDefault("groups.staging3", defaults.Staging3)
	viper.SetDefault("groups.wait3", defaults.Wait3)
	viper.SetDefault("groups.shop_a3", defaults.ShopA3)
	viper.SetDefault("groups.shop_b3", defaults.ShopB3)
	viper.SetDefault("groups.shop_c3", defaults.ShopC3)
	viper.SetDefault("groups.shop_d3", defaults.ShopD3)
	viper.SetDefault("groups.discard", defaults.Discard)
	viper.SetDefault("groups.neighbor", defaults.Neighbor)

	// Read environment variables
	viper.SetEnvPrefix("PERCENTY")
	viper.AutomaticEnv()

	// Read config file (optional - don't fail if missing)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK - we'll use defaults
	}

	config := &Config{
		OutputDir:       viper.GetString("output_dir"),
		Headless:        viper.GetBool("headless"),
		DBPath:          viper.GetString("db_path"),
		S3Bucket:        viper.GetString("s3_bucket"),
		AWSRegion:       viper.GetString("aws_region"),
		UploadReport:    viper.GetBool("upload_report"),
		AccountFile:     viper.GetString("account_file"),
		MaxFailures:     viper.GetInt("max_failures"),
		ImageCap:        viper.GetInt("image_cap"),
		ContentTotalMax: viper.GetInt("content_total_max"),
		DuplicatePhrase: viper.GetString("duplicate_phrase"),
		BudgetMin:       time.Duration(viper.GetInt("budget_min_seconds")) * time.Second,
		BudgetMax:       time.Duration(viper.GetInt("budget_max_seconds")) * time.Second,
		Groups: editor.GroupNames{
			Staging:     viper.GetString("groups.staging"),
			StagingNew:  viper.GetString("groups.staging_new"),
			NeverDelete: viper.GetString("groups.never_delete"),
			Staging3:    viper.GetString("groups.staging3"),
			Wait3:       viper.GetString("groups.wait3"),
			ShopA3:      viper.GetString("groups.shop_a3"),
			ShopB3:      viper.GetString("groups.shop_b3"),
			ShopC3:      viper.GetString("groups.shop_c3"),
			ShopD3:      viper.GetString("groups.shop_d3"),
			Discard:     viper.GetString("groups.discard"),
			Neighbor:    viper.GetString("groups.neighbor"),
		},
	}

	return config, nil
}

// EnsureOutputDir creates the output directory if it doesn't exist
func EnsureOutputDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return nil
}
