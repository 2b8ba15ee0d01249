package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"docai/constants/lipgloss"
	"docai/server"
)

// serveCmd: docai serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve project questions over HTTP.",
	Long: `The 'serve' subcommand exposes the assistant as an HTTP API with a JSON
'/ask' endpoint and a streaming '/ask/stream' endpoint. The analysis document
is loaded once at startup; produce it first with 'docai analyze'.`,
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		if rootDependencies == nil {
			return
		}

		port, _ := cmd.Flags().GetInt("port")
		handleServeCommand(rootDependencies, port)
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 5000, "Port for the HTTP server")
	rootCmd.AddCommand(serveCmd)
}

func handleServeCommand(rootDependencies *RootDependencies, port int) {

	ai, err := loadAssistant(rootDependencies)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return
	}

	srv := server.New(server.Config{Port: port}, ai)

	if err := srv.Start(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Server error: %v", err)))
	}
}
