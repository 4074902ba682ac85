// Package chatcmder provides the chat command, a terminal client for a
// running compass server.
package chatcmder

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/deencompass/compass/api"
	"github.com/deencompass/compass/pkg/cliui"
	"github.com/deencompass/compass/pkg/config"
	"github.com/deencompass/compass/pkg/llm"
	"github.com/deencompass/compass/pkg/logger"
	"github.com/deencompass/compass/pkg/utils"
)

type chatCommander struct {
	target   string
	question string
	raw      bool
	debug    bool

	in     io.Reader
	out    io.Writer
	client *http.Client
	logger *slog.Logger
}

const chatLongDesc string = `Start an interactive chat session with a running compass server.

Each message is sent to POST /api/chat together with the conversation so
far. The server adds its policy instruction, so the client only sends user
and assistant turns. Replies are rendered as markdown.

Use --question for a single non-interactive exchange.

Examples:
  compass chat
  compass chat --target http://localhost:9000
  compass chat -q "What does Surah Al-Asr teach about time?"`

const chatShortDesc string = "Chat with a compass server from the terminal"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfger, err := config.NewConfiger(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cfg, err := cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if !cmd.Flags().Changed(config.ClientFlags[config.FlagClientTarget].Name) {
				cmder.target = cfg.Client.Target
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			cmder.in = cmd.InOrStdin()
			cmder.out = cmd.OutOrStdout()
			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.ClientFlags, config.FlagClientTarget, &cmder.target)
	cmd.Flags().StringVarP(&cmder.question, "question", "q", "", "Ask a single question and exit")
	cmd.Flags().BoolVar(&cmder.raw, "raw", false, "Print replies without markdown rendering")

	return cmd
}

func (c *chatCommander) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	c.logger = logger.New(logger.WithDebug(c.debug), logger.WithPretty(true), logger.WithWriter(os.Stderr))
	if c.client == nil {
		c.client = &http.Client{
			// Reasoning models can take minutes to answer.
			Timeout: 5 * time.Minute,
		}
	}

	if c.question != "" {
		reply, err := c.ask(ctx, []llm.Message{llm.NewMessage(llm.RoleUser, c.question)})
		if err != nil {
			return err
		}
		c.print(reply)
		return nil
	}

	return c.loop(ctx)
}

func (c *chatCommander) loop(ctx context.Context) error {
	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "  %s %s\n",
		cliui.KeyStyle.Render("Server:"),
		cliui.NameStyle.Render(c.target),
	)
	fmt.Fprintf(c.out, "  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /reset starts over, /exit or Ctrl+D quits."))

	var messages []llm.Message
	scanner := bufio.NewScanner(c.in)

	for {
		fmt.Fprint(c.out, cliui.UserPrompt)
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		switch input {
		case "":
			continue
		case "/exit":
			fmt.Fprintln(c.out)
			return nil
		case "/reset":
			messages = nil
			fmt.Fprintf(c.out, "  %s\n\n", cliui.DimStyle.Render("New conversation"))
			continue
		}

		pending := append(messages, llm.NewMessage(llm.RoleUser, input))
		reply, err := c.ask(ctx, pending)
		if err != nil {
			fmt.Fprintf(c.out, "  %s %v\n\n", cliui.FailMark, err)
			continue
		}

		messages = append(pending, llm.NewMessage(llm.RoleAssistant, reply))
		c.print(reply)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Fprintln(c.out)
	return nil
}

// ask sends the conversation and waits for the reply behind a spinner.
func (c *chatCommander) ask(ctx context.Context, messages []llm.Message) (string, error) {
	var reply string
	err := cliui.Step(c.out, "Thinking", func() error {
		var err error
		reply, err = c.send(ctx, messages)
		return err
	})
	return reply, err
}

func (c *chatCommander) send(ctx context.Context, messages []llm.Message) (string, error) {
	body, err := json.Marshal(api.ChatRequest{Messages: messages})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	last := messages[len(messages)-1].Content
	c.logger.Debug("sending chat request",
		"target", c.target,
		"message_count", len(messages),
		"last", utils.Truncate(last, 40),
	)

	url := strings.TrimRight(c.target, "/") + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request to %s: %w", c.target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var e llm.ErrorResponse
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			return "", fmt.Errorf("server returned status %d: %s", resp.StatusCode, e.Error)
		}
		return "", fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(data))
	}

	var chat api.ChatResponse
	if err := json.Unmarshal(data, &chat); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	return chat.Text, nil
}

func (c *chatCommander) print(reply string) {
	fmt.Fprintln(c.out)
	fmt.Fprint(c.out, cliui.AssistantPrompt)

	if reply == "" {
		fmt.Fprintf(c.out, "%s\n\n", cliui.DimStyle.Render("(no text returned)"))
		return
	}

	if c.raw {
		fmt.Fprintf(c.out, "%s\n\n", reply)
		return
	}

	rendered, err := cliui.RenderMarkdown(reply, 0)
	if err != nil {
		c.logger.Debug("markdown rendering failed", "error", err)
	}
	fmt.Fprintf(c.out, "\n%s\n", rendered)
}
