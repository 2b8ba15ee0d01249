package token_management

import (
	"fmt"
	"strings"
	"sync"

	"docai/constants/lipgloss"
	"docai/token_management/contracts"
)

// tokenManager accumulates session token usage. Safe for concurrent use:
// the serve command shares one manager across request goroutines.
type tokenManager struct {
	mutex           sync.Mutex
	usedToken       int
	usedInputToken  int
	usedOutputToken int
}

type modelPricing struct {
	inputCostPerMillionTokens  float64
	outputCostPerMillionTokens float64
}

// Per-million-token pricing for the models this tool targets.
var modelPrices = map[string]modelPricing{
	"deepseek-chat":     {inputCostPerMillionTokens: 0.27, outputCostPerMillionTokens: 1.10},
	"deepseek-reasoner": {inputCostPerMillionTokens: 0.55, outputCostPerMillionTokens: 2.19},
}

// NewTokenManager creates a new session token manager.
func NewTokenManager() contracts.ITokenManagement {
	return &tokenManager{}
}

// UsedTokens accumulates the token count for the session.
func (tm *tokenManager) UsedTokens(inputToken int, outputToken int) {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()
	tm.usedInputToken += inputToken
	tm.usedOutputToken += outputToken
	tm.usedToken += inputToken + outputToken
}

// EstimateTokens approximates the token count of a text as chars/4.
func (tm *tokenManager) EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

func (tm *tokenManager) CalculateCost(modelName string, inputToken int, outputToken int) float64 {
	pricing, exists := modelPrices[strings.ToLower(modelName)]
	if !exists {
		return 0
	}
	inputCost := float64(inputToken) * pricing.inputCostPerMillionTokens / 1000000.0
	outputCost := float64(outputToken) * pricing.outputCostPerMillionTokens / 1000000.0
	return inputCost + outputCost
}

func (tm *tokenManager) GetCurrentTokenUsage() (total int, input int, output int) {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()
	return tm.usedToken, tm.usedInputToken, tm.usedOutputToken
}

func (tm *tokenManager) DisplayTokens(providerName string, modelName string) {
	total, input, output := tm.GetCurrentTokenUsage()
	cost := tm.CalculateCost(modelName, input, output)

	tokenInfo := fmt.Sprintf("Token Used: %d - Cost: %.6f $ - Chat Model: %s", total, cost, modelName)
	fmt.Println(lipgloss.BoxStyle.Render(tokenInfo))
}

func (tm *tokenManager) ClearToken() {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()
	tm.usedToken = 0
	tm.usedInputToken = 0
	tm.usedOutputToken = 0
}
