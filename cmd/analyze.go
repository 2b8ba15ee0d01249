package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"docai/analyzer"
	"docai/constants/lipgloss"
)

// analyzeCmd: docai analyze
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the project tree and write the analysis document.",
	Long: `The 'analyze' subcommand walks the project root, extracts structure from
Python, LaTeX, and text files, and writes the result as a JSON document. The
'ask' and 'serve' subcommands answer questions against that document.`,
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		if rootDependencies == nil {
			return
		}

		if root, _ := cmd.Flags().GetString("root"); root != "" {
			if !filepath.IsAbs(root) {
				root = filepath.Join(rootDependencies.Cwd, root)
			}
			rootDependencies.ProjectRoot = root
			rootDependencies.Analyzer = analyzer.NewProjectAnalyzer(root, rootDependencies.Config.ProjectName)
		}

		output, _ := cmd.Flags().GetString("output")
		handleAnalyzeCommand(rootDependencies, output)
	},
}

func init() {
	analyzeCmd.Flags().StringP("root", "r", "", "Project root to analyze (overrides --project_root)")
	analyzeCmd.Flags().StringP("output", "o", "", "Output path for the analysis document (overrides --analysis_file)")
	rootCmd.AddCommand(analyzeCmd)
}

func handleAnalyzeCommand(rootDependencies *RootDependencies, output string) {

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").WithDelay(100).WithRemoveWhenDone(true)

	spinnerAnalyze, _ := spinner.Start(fmt.Sprintf("Analyzing %s...", rootDependencies.ProjectRoot))

	analysis, err := rootDependencies.Analyzer.AnalyzeProject()
	if err != nil {
		spinnerAnalyze.Stop()
		fmt.Print("\r")
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error analyzing project: %v", err)))
		return
	}

	outputPath := output
	if outputPath == "" {
		outputPath = analysisPath(rootDependencies)
	} else if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(rootDependencies.Cwd, outputPath)
	}

	if err := rootDependencies.Analyzer.SaveAnalysis(analysis, outputPath); err != nil {
		spinnerAnalyze.Stop()
		fmt.Print("\r")
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error saving analysis: %v", err)))
		return
	}

	spinnerAnalyze.Stop()
	fmt.Print("\r")
	fmt.Println(lipgloss.Green.Render(fmt.Sprintf("✓ Analysis of '%s' written to %s", analysis.ProjectName, outputPath)))
}
