package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"docai/analyzer"
	analyzer_contracts "docai/analyzer/contracts"
	"docai/assistant"
	"docai/config"
	"docai/constants/lipgloss"
	"docai/providers"
	contracts_provider "docai/providers/contracts"
	"docai/retrieval"
	contracts_retrieval "docai/retrieval/contracts"
	"docai/token_management"
	contracts_token "docai/token_management/contracts"
)

// RootDependencies holds the dependencies needed for the root command.
type RootDependencies struct {
	Config              *config.Config
	Cwd                 string
	ProjectRoot         string
	Analyzer            analyzer_contracts.IProjectAnalyzer
	Ranker              contracts_retrieval.IRanker
	CurrentChatProvider contracts_provider.IChatAIProvider
	TokenManagement     contracts_token.ITokenManagement
}

// rootCmd: docai
var rootCmd = &cobra.Command{
	Use:   "docai",
	Short: "docai answers questions about an analyzed project.",
	Long: `docai builds a structured analysis of a project tree and answers questions
about it through an AI chat provider. Run 'analyze' once to produce the analysis
document, then 'ask' for an interactive session or 'serve' for an HTTP API.`,
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Println(config.DefaultConfig.Version)
			return
		}
		_ = cmd.Help()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd)
}

// handleRootCommand loads configuration and constructs the shared dependencies.
func handleRootCommand(cmd *cobra.Command) *RootDependencies {

	rootDependencies := &RootDependencies{}

	var err error

	rootDependencies.Cwd, err = os.Getwd()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error getting current directory: %v", err)))
		return nil
	}

	rootDependencies.Config = config.LoadConfigs(rootCmd, rootDependencies.Cwd)

	rootDependencies.ProjectRoot = rootDependencies.Config.ProjectRoot
	if !filepath.IsAbs(rootDependencies.ProjectRoot) {
		rootDependencies.ProjectRoot = filepath.Join(rootDependencies.Cwd, rootDependencies.ProjectRoot)
	}

	projectName := rootDependencies.Config.ProjectName
	if projectName == "" {
		projectName = filepath.Base(rootDependencies.ProjectRoot)
	}

	rootDependencies.TokenManagement = token_management.NewTokenManager()

	rootDependencies.Analyzer = analyzer.NewProjectAnalyzer(rootDependencies.ProjectRoot, projectName)

	rootDependencies.Ranker = &retrieval.KeywordRanker{MaxMatches: rootDependencies.Config.RetrievalConfig.MaxMatches}

	rootDependencies.CurrentChatProvider, err = providers.ChatProviderFactory(rootDependencies.Config.AIProviderConfig, rootDependencies.TokenManagement)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return nil
	}

	return rootDependencies
}

// analysisPath resolves the configured analysis file against the working directory.
func analysisPath(rootDependencies *RootDependencies) string {
	path := rootDependencies.Config.AnalysisFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(rootDependencies.Cwd, path)
	}
	return path
}

// loadAssistant loads the analysis document and assembles the question-answering
// pipeline on top of it.
func loadAssistant(rootDependencies *RootDependencies) (*assistant.Assistant, error) {
	path := analysisPath(rootDependencies)

	corpus, err := analyzer.LoadAnalysis(path)
	if err != nil {
		return nil, fmt.Errorf("no analysis found at %s (run 'docai analyze' first): %w", path, err)
	}

	projectName := rootDependencies.Config.ProjectName
	if projectName == "" {
		projectName = corpus.ProjectName
	}

	enricher := retrieval.NewContentEnricher(rootDependencies.ProjectRoot, rootDependencies.Config.RetrievalConfig.MaxFileChars)
	builder := retrieval.NewPromptBuilder(retrieval.ProjectMeta{
		Name:     projectName,
		Overview: rootDependencies.Config.ProjectOverview,
	}, enricher, rootDependencies.Config.RetrievalConfig.MaxPromptChars)

	return assistant.New(corpus, rootDependencies.Ranker, builder, rootDependencies.CurrentChatProvider), nil
}
