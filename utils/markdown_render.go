package utils

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// DetectLanguageFromCodeBlock returns the language tag of the most recent
// fenced code block opener in the chunk, or "markdown" when none is present.
func DetectLanguageFromCodeBlock(content string) string {
	lines := strings.Split(content, "\n")
	language := "markdown"
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			tag := strings.TrimPrefix(trimmed, "```")
			if tag != "" {
				language = tag
			}
		}
	}
	return language
}

// RenderAndPrintMarkdown highlights one chunk of streamed markdown on stdout.
func RenderAndPrintMarkdown(content string, language string, theme string) error {
	return quick.Highlight(os.Stdout, content, language, "terminal256", theme)
}

// RenderAndPrintMarkdownWithContext renders streamed markdown line by line
// with cancellation support, so Ctrl+C interrupts long answers promptly.
func RenderAndPrintMarkdownWithContext(ctx context.Context, content string, language string, theme string) error {
	lines := strings.Split(content, "\n")

	for i, line := range lines {
		select {
		case <-ctx.Done():
			fmt.Print("\n")
			return ctx.Err()
		default:
		}

		var buf bytes.Buffer
		if err := quick.Highlight(&buf, line+"\n", language, "terminal256", theme); err != nil {
			return err
		}
		fmt.Print(buf.String())

		if i%5 == 0 {
			select {
			case <-ctx.Done():
				fmt.Print("\n")
				return ctx.Err()
			default:
			}
		}
	}

	return nil
}
