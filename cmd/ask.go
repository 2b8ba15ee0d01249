package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"docai/assistant"
	"docai/constants/lipgloss"
	"docai/utils"
)

// askCmd: docai ask
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask questions about the analyzed project within a session.",
	Long: `The 'ask' subcommand starts a session against the project's analysis document.
Each question is matched against the analyzed files, the most relevant file
contents are attached to the prompt, and the answer is streamed back. Pass a
question as arguments for a single answer, or run without arguments for an
interactive session.`,
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		if rootDependencies == nil {
			return
		}
		handleAskCommand(rootDependencies, args)
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func handleAskCommand(rootDependencies *RootDependencies, args []string) {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").WithDelay(100).WithRemoveWhenDone(true)

	go utils.GracefulShutdown(ctx, cancel, func() {
		rootDependencies.TokenManagement.ClearToken()
	})

	spinnerLoadCorpus, _ := spinner.Start("Loading project analysis...")

	ai, err := loadAssistant(rootDependencies)
	if err != nil {
		spinnerLoadCorpus.Stop()
		fmt.Print("\r")
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return
	}

	spinnerLoadCorpus.Stop()
	fmt.Print("\r")

	// One-shot mode: answer the question given on the command line and exit.
	if len(args) > 0 {
		question := strings.Join(args, " ")
		if err := answerQuestion(ctx, rootDependencies, ai, question); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		}
		return
	}

	reader := bufio.NewReader(os.Stdin)

	askOptionsBox := lipgloss.BoxStyle.Render("/help  Help for ask subcommand")
	fmt.Println(askOptionsBox)

	for {
		select {
		case <-ctx.Done():
			return

		default:
			userInput, err := utils.InputPromptWithContext(ctx, reader)

			if err != nil {
				if err == context.Canceled {
					fmt.Println(lipgloss.Yellow.Render("\n🔄 Exiting..."))
					return
				}
				fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
				continue
			}

			if userInput == "" {
				fmt.Print("\r")
				continue
			}

			isSubcommand, exit := findAskSubCommand(userInput, rootDependencies)

			if isSubcommand {
				continue
			}

			if exit {
				return
			}

			if err := answerQuestion(ctx, rootDependencies, ai, userInput); err != nil {
				fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			}

			rootDependencies.TokenManagement.DisplayTokens(
				rootDependencies.Config.AIProviderConfig.Provider,
				rootDependencies.Config.AIProviderConfig.Model,
			)
		}
	}
}

// answerQuestion sends one question to the provider and renders the answer.
func answerQuestion(ctx context.Context, rootDependencies *RootDependencies, ai *assistant.Assistant, question string) error {

	theme := rootDependencies.Config.Theme

	if !rootDependencies.Config.AIProviderConfig.Stream {
		answer, err := ai.Ask(ctx, question)
		if err != nil {
			return err
		}
		language := utils.DetectLanguageFromCodeBlock(answer)
		return utils.RenderAndPrintMarkdown(answer, language, theme)
	}

	aiSpinner := pterm.DefaultSpinner.
		WithStyle(pterm.NewStyle(pterm.FgCyan)).
		WithSequence("🤔", "🧠", "💭", "✨", "🚀", "💡").
		WithDelay(1000).
		WithRemoveWhenDone(true)

	spinnerAI, _ := aiSpinner.Start("DeepSeek is analyzing...")

	responseChan := ai.AskStream(ctx, question)

	firstResponse := true
	for response := range responseChan {
		if response.Err != nil {
			spinnerAI.Stop()
			return response.Err
		}

		if response.Done {
			if firstResponse {
				spinnerAI.Stop()
			}
			return nil
		}

		if firstResponse && response.Content != "" {
			spinnerAI.Stop()
			fmt.Print("\n")
			firstResponse = false
		}

		language := utils.DetectLanguageFromCodeBlock(response.Content)
		if err := utils.RenderAndPrintMarkdownWithContext(ctx, response.Content, language, theme); err != nil {
			if err == context.Canceled {
				return fmt.Errorf("output cancelled by user")
			}
			return fmt.Errorf("error rendering markdown: %v", err)
		}
	}

	return nil
}

func findAskSubCommand(command string, rootDependencies *RootDependencies) (bool, bool) {
	switch command {
	case "/help":
		helps := "/clear  Clear screen\n/exit  Exit from docai\n/token  Token information\n/clear-token  Clear token from session"
		styledHelps := lipgloss.BoxStyle.Render(helps)
		fmt.Println(styledHelps)
		return true, false
	case "/clear":
		fmt.Print("\033[2J\033[H")
		return true, false
	case "/exit":
		return false, true
	case "/token":
		rootDependencies.TokenManagement.DisplayTokens(
			rootDependencies.Config.AIProviderConfig.Provider,
			rootDependencies.Config.AIProviderConfig.Model,
		)
		return true, false
	case "/clear-token":
		rootDependencies.TokenManagement.ClearToken()
		return true, false
	default:
		return false, false
	}
}
