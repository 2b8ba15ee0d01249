package providers

import (
	"fmt"
	"strings"

	"docai/providers/contracts"
	"docai/providers/deepseek"
	contracts2 "docai/token_management/contracts"
)

// AIProviderConfig selects and configures the outbound chat provider. It is
// populated once from configuration and passed to constructors; nothing reads
// the environment mid-request.
type AIProviderConfig struct {
	Provider    string   `mapstructure:"provider"`
	BaseURL     string   `mapstructure:"base_url"`
	Model       string   `mapstructure:"model"`
	ApiKey      string   `mapstructure:"api_key"`
	Stream      bool     `mapstructure:"stream"`
	Temperature *float32 `mapstructure:"temperature"`
}

// ChatProviderFactory returns the provider named by the configuration.
func ChatProviderFactory(config *AIProviderConfig, tokenManagement contracts2.ITokenManagement) (contracts.IChatAIProvider, error) {
	switch strings.ToLower(config.Provider) {
	case "", "deepseek", "openai":
		return deepseek.NewDeepSeekChatProvider(&deepseek.DeepSeekConfig{
			BaseURL:         config.BaseURL,
			Model:           config.Model,
			ApiKey:          config.ApiKey,
			Temperature:     config.Temperature,
			TokenManagement: tokenManagement,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}
}
