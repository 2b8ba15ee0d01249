package utils

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"docai/constants/lipgloss"
)

// InputPromptWithContext reads one question from the user, honoring context
// cancellation so Ctrl+C exits the ask loop cleanly.
func InputPromptWithContext(ctx context.Context, reader *bufio.Reader) (string, error) {
	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		fmt.Print(lipgloss.BlueSky.Render("> "))

		userInput, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				// Closed stdin ends the session like Ctrl+C.
				errChan <- context.Canceled
				return
			}
			errChan <- fmt.Errorf("error reading input: %w", err)
			return
		}
		inputChan <- strings.TrimSpace(userInput)
	}()

	select {
	case <-ctx.Done():
		fmt.Println()
		return "", ctx.Err()
	case err := <-errChan:
		return "", err
	case input := <-inputChan:
		return input, nil
	}
}
