package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"docai/constants/lipgloss"
	"docai/providers"
)

// RetrievalConfig bounds the retrieval pipeline.
type RetrievalConfig struct {
	MaxMatches     int `mapstructure:"max_matches"`
	MaxFileChars   int `mapstructure:"max_file_chars"`
	MaxPromptChars int `mapstructure:"max_prompt_chars"`
}

// Config represents the structure of the configuration file.
type Config struct {
	Version          string                      `mapstructure:"version"`
	Theme            string                      `mapstructure:"theme"`
	ProjectName      string                      `mapstructure:"project_name"`
	ProjectOverview  string                      `mapstructure:"project_overview"`
	ProjectRoot      string                      `mapstructure:"project_root"`
	AnalysisFile     string                      `mapstructure:"analysis_file"`
	RetrievalConfig  *RetrievalConfig            `mapstructure:"retrieval_config"`
	AIProviderConfig *providers.AIProviderConfig `mapstructure:"ai_provider_config"`
}

// DefaultConfig values.
var DefaultConfig = Config{
	Version:         "1.0.0",
	Theme:           "dracula",
	ProjectName:     "",
	ProjectOverview: "This is a radio astronomy project using SKARAB hardware platform with FPGA-based digital backends for processing astronomical signals.",
	ProjectRoot:     ".",
	AnalysisFile:    "project_analysis.json",
	RetrievalConfig: &RetrievalConfig{
		MaxMatches:     3,
		MaxFileChars:   2000,
		MaxPromptChars: 12000,
	},
	AIProviderConfig: &providers.AIProviderConfig{
		Provider: "deepseek",
		BaseURL:  "https://api.deepseek.com/v1",
		Model:    "deepseek-chat",
		Stream:   true,
		ApiKey:   "",
	},
}

// cfgFile holds the path to the configuration file (set via CLI).
var cfgFile string

// LoadConfigs initializes the configuration from file, flags, and environment
// variables, and returns the final config.
func LoadConfigs(rootCmd *cobra.Command, cwd string) *Config {
	var config *Config

	setDefaults()
	viper.AutomaticEnv()
	bindEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error reading config file: %v", err)))
			os.Exit(1)
		}
	} else {
		viper.SetConfigName("docai-config")
		viper.AddConfigPath(cwd)

		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			viper.SetConfigType("json")
			if err := viper.ReadInConfig(); err != nil {
				// No configuration file; defaults plus env and flags apply.
			}
		}
	}

	bindFlags(rootCmd)

	if err := viper.Unmarshal(&config); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Unable to decode into struct: %v", err)))
		os.Exit(1)
	}

	applyTemperature(rootCmd, config)

	return config
}

// applyTemperature resolves the optional temperature from flag or environment.
// Handled outside viper so an unset temperature stays nil and is omitted from
// requests instead of being sent as zero.
func applyTemperature(rootCmd *cobra.Command, config *Config) {
	if config.AIProviderConfig == nil {
		return
	}
	if flag := rootCmd.PersistentFlags().Lookup("temperature"); flag != nil && flag.Changed {
		if v, err := rootCmd.PersistentFlags().GetFloat32("temperature"); err == nil {
			config.AIProviderConfig.Temperature = &v
			return
		}
	}
	if raw := os.Getenv("TEMPERATURE"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 32); err == nil {
			value := float32(v)
			config.AIProviderConfig.Temperature = &value
		}
	}
}

func setDefaults() {
	viper.SetDefault("version", DefaultConfig.Version)
	viper.SetDefault("theme", DefaultConfig.Theme)
	viper.SetDefault("project_name", DefaultConfig.ProjectName)
	viper.SetDefault("project_overview", DefaultConfig.ProjectOverview)
	viper.SetDefault("project_root", DefaultConfig.ProjectRoot)
	viper.SetDefault("analysis_file", DefaultConfig.AnalysisFile)
	viper.SetDefault("retrieval_config.max_matches", DefaultConfig.RetrievalConfig.MaxMatches)
	viper.SetDefault("retrieval_config.max_file_chars", DefaultConfig.RetrievalConfig.MaxFileChars)
	viper.SetDefault("retrieval_config.max_prompt_chars", DefaultConfig.RetrievalConfig.MaxPromptChars)
	viper.SetDefault("ai_provider_config.provider", DefaultConfig.AIProviderConfig.Provider)
	viper.SetDefault("ai_provider_config.base_url", DefaultConfig.AIProviderConfig.BaseURL)
	viper.SetDefault("ai_provider_config.model", DefaultConfig.AIProviderConfig.Model)
	viper.SetDefault("ai_provider_config.stream", DefaultConfig.AIProviderConfig.Stream)
	viper.SetDefault("ai_provider_config.api_key", DefaultConfig.AIProviderConfig.ApiKey)
}

// bindEnv explicitly binds environment variables to configuration keys.
func bindEnv() {
	_ = viper.BindEnv("theme", "THEME")
	_ = viper.BindEnv("project_name", "PROJECT_NAME")
	_ = viper.BindEnv("project_overview", "PROJECT_OVERVIEW")
	_ = viper.BindEnv("project_root", "PROJECT_ROOT")
	_ = viper.BindEnv("analysis_file", "ANALYSIS_FILE")
	_ = viper.BindEnv("ai_provider_config.provider", "PROVIDER")
	_ = viper.BindEnv("ai_provider_config.base_url", "BASE_URL")
	_ = viper.BindEnv("ai_provider_config.model", "MODEL")
	_ = viper.BindEnv("ai_provider_config.api_key", "API_KEY", "DEEPSEEK_API_KEY")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(rootCmd *cobra.Command) {
	_ = viper.BindPFlag("theme", rootCmd.PersistentFlags().Lookup("theme"))
	_ = viper.BindPFlag("project_name", rootCmd.PersistentFlags().Lookup("project_name"))
	_ = viper.BindPFlag("project_overview", rootCmd.PersistentFlags().Lookup("project_overview"))
	_ = viper.BindPFlag("project_root", rootCmd.PersistentFlags().Lookup("project_root"))
	_ = viper.BindPFlag("analysis_file", rootCmd.PersistentFlags().Lookup("analysis_file"))
	_ = viper.BindPFlag("retrieval_config.max_matches", rootCmd.PersistentFlags().Lookup("max_matches"))
	_ = viper.BindPFlag("retrieval_config.max_file_chars", rootCmd.PersistentFlags().Lookup("max_file_chars"))
	_ = viper.BindPFlag("retrieval_config.max_prompt_chars", rootCmd.PersistentFlags().Lookup("max_prompt_chars"))
	_ = viper.BindPFlag("ai_provider_config.provider", rootCmd.PersistentFlags().Lookup("provider"))
	_ = viper.BindPFlag("ai_provider_config.base_url", rootCmd.PersistentFlags().Lookup("base_url"))
	_ = viper.BindPFlag("ai_provider_config.model", rootCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("ai_provider_config.api_key", rootCmd.PersistentFlags().Lookup("api_key"))
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to a configuration file (JSON or YAML) with all application settings.")

	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "Theme for rendering streamed answers (e.g. 'dracula', 'light', 'dark').")
	rootCmd.PersistentFlags().String("project_name", DefaultConfig.ProjectName, "Name of the analyzed project; defaults to the root directory name.")
	rootCmd.PersistentFlags().String("project_overview", DefaultConfig.ProjectOverview, "One-paragraph overview of the project included in every prompt.")
	rootCmd.PersistentFlags().String("project_root", DefaultConfig.ProjectRoot, "Root directory of the project to analyze and answer questions about.")
	rootCmd.PersistentFlags().String("analysis_file", DefaultConfig.AnalysisFile, "Path of the analysis document written by 'analyze' and read by 'ask'/'serve'.")
	rootCmd.PersistentFlags().Int("max_matches", DefaultConfig.RetrievalConfig.MaxMatches, "Maximum number of relevant files included in a prompt.")
	rootCmd.PersistentFlags().Int("max_file_chars", DefaultConfig.RetrievalConfig.MaxFileChars, "Maximum characters of one file's content included in a prompt.")
	rootCmd.PersistentFlags().Int("max_prompt_chars", DefaultConfig.RetrievalConfig.MaxPromptChars, "Maximum characters of the total assembled prompt (0 disables the cap).")

	rootCmd.Flags().BoolP("version", "v", false, "Print the version of the application.")

	rootCmd.PersistentFlags().String("provider", DefaultConfig.AIProviderConfig.Provider, "The name of the AI provider (e.g. 'deepseek').")
	rootCmd.PersistentFlags().String("base_url", DefaultConfig.AIProviderConfig.BaseURL, "The base URL of the chat completions endpoint.")
	rootCmd.PersistentFlags().String("model", DefaultConfig.AIProviderConfig.Model, "The model used for chat completions, such as 'deepseek-chat'.")
	rootCmd.PersistentFlags().Float32("temperature", 0, "Adjusts the model's creativity (0-1).")
	rootCmd.PersistentFlags().String("api_key", DefaultConfig.AIProviderConfig.ApiKey, "The API key used to authenticate with the AI service provider.")
}
