package contracts

// ITokenManagement tracks session token usage and estimates prompt sizes.
type ITokenManagement interface {
	UsedTokens(inputToken int, outputToken int)
	EstimateTokens(text string) int
	CalculateCost(modelName string, inputToken int, outputToken int) float64
	GetCurrentTokenUsage() (total int, input int, output int)
	DisplayTokens(providerName string, modelName string)
	ClearToken()
}
