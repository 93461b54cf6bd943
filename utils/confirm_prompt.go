package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/snapgpt/snapgpt/constants/lipgloss"
)

// ConfirmPrompt asks a yes/no question and returns the answer. EOF counts
// as a decline so piped runs never hang.
func ConfirmPrompt(question string, reader *bufio.Reader) (bool, error) {
	fmt.Print(lipgloss.BlueSky.Render(question + " (y/n): "))

	response, err := reader.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			return false, nil
		}
		return false, fmt.Errorf("error reading input: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}
