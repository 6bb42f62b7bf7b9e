package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the avatar in the terminal",
	Long: `Start an interactive session. Each line is dispatched to the selected
response backend; replies are rendered as markdown alongside the animation
the avatar would play.

Commands: /provider <name>, /providers, /init, /color <hex>, /voice <name>, /quit`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.coordinator.Stop()

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	fmt.Printf("marionette %s (backend: %s)\n", version, a.dispatcher.Selected())
	fmt.Println("Type a message, or /quit to leave.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := a.runReplCommand(ctx, line); quit {
				break
			}
			continue
		}

		result := a.handleMessage(ctx, line)

		rendered, err := renderer.Render(result.Text)
		if err != nil {
			log.Warn().Err(err).Msg("could not render reply")
			rendered = result.Text + "\n"
		}
		fmt.Print(rendered)

		if result.Animation != "" {
			fmt.Printf("  [%s]\n", result.Animation)
		}
	}

	return scanner.Err()
}

func (a *app) runReplCommand(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true

	case "/providers":
		fmt.Printf("available: %s (selected: %s)\n",
			strings.Join(a.dispatcher.Strategies(), ", "),
			a.dispatcher.Selected())

	case "/provider":
		if len(fields) < 2 {
			fmt.Println("usage: /provider <name>")
			return false
		}
		if err := a.dispatcher.Select(fields[1]); err != nil {
			fmt.Printf("error: %s\n", err)
			return false
		}
		fmt.Printf("backend: %s\n", a.dispatcher.Selected())

	case "/init":
		fmt.Println("warming up embedded runtime...")
		err := a.runtime.Initialize(ctx, func(percent int, status string) {
			fmt.Printf("\r%3d%% %-40s", percent, status)
		})
		fmt.Println()
		if err != nil {
			fmt.Printf("error: %s\n", err)
			return false
		}
		fmt.Println("ready")

	case "/color":
		if len(fields) < 2 {
			fmt.Printf("color: %s\n", a.prefs.GetColor())
			return false
		}
		a.prefs.SetColor(fields[1])

	case "/voice":
		if len(fields) < 2 {
			fmt.Printf("voice: %s\n", a.prefs.GetVoice())
			return false
		}
		a.prefs.SetVoice(strings.Join(fields[1:], " "))

	default:
		fmt.Printf("unknown command: %s\n", fields[0])
	}

	return false
}
