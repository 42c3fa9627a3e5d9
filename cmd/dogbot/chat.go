package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-dog-catalog/internal/bot"
	"github.com/tbourn/go-dog-catalog/internal/sysutil"
)

func chatCmd() *cobra.Command {
	var user, name string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the catalog through the conversation engine",
		Long: "Reads messages from stdin. Menu buttons are sent as /<action>, for example /find_dogs.\n" +
			"/start shows the greeting, /menu lists the buttons, /quit exits. Anything else is free text.",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := bot.NewClient(cfg.Bot.APIURL, cfg.Bot.RequestTimeout)
			if err != nil {
				return fmt.Errorf("chat: %w", err)
			}
			name = sysutil.FirstNonEmpty(name, os.Getenv("USER"), "friend")
			return runChat(cmd.Context(), bot.NewEngine(client), cmd.InOrStdin(), cmd.OutOrStdout(), user, name)
		},
	}
	cmd.Flags().StringVar(&user, "user", "terminal", "conversation user id")
	cmd.Flags().StringVar(&name, "name", "", "display name used in the greeting (default $USER)")
	return cmd
}

// runChat feeds each input line to the engine until EOF, /quit or ctx is
// done. Ignored free text prints nothing.
func runChat(ctx context.Context, e *bot.Engine, in io.Reader, out io.Writer, user, name string) error {
	printReply(out, e.HandleStart(ctx, user, name))

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			continue
		case line == "/quit":
			return nil
		case line == "/start":
			printReply(out, e.HandleStart(ctx, user, name))
		case line == "/menu":
			printMenu(out, bot.Menu())
		case strings.HasPrefix(line, "/"):
			reply, err := e.HandleAction(ctx, user, bot.Action(strings.TrimPrefix(line, "/")))
			if err != nil {
				fmt.Fprintf(out, "%v\n", err)
				printMenu(out, bot.Menu())
				continue
			}
			printReply(out, reply)
		default:
			if reply, ok := e.HandleText(ctx, user, line); ok {
				printReply(out, reply)
			}
		}
	}
	return sc.Err()
}

func printReply(out io.Writer, r bot.Reply) {
	fmt.Fprintln(out, r.Text)
	printMenu(out, r.Menu)
}

func printMenu(out io.Writer, menu [][]bot.Button) {
	for _, row := range menu {
		cells := make([]string, 0, len(row))
		for _, b := range row {
			cells = append(cells, fmt.Sprintf("/%-14s %-18s", b.Action, b.Text))
		}
		fmt.Fprintln(out, strings.TrimRight(strings.Join(cells, " "), " "))
	}
}
