package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"morning-pulse-be/pkg/pulse"
	"morning-pulse-be/pkg/store"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask questions about today's Morning Pulse stories",
	Long: `ask opens an interactive session against a running Morning Pulse server.
Answers stream in as they are generated and citations are listed below each answer.
Type /reset to start a new conversation and /quit to leave.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().String("url", "http://localhost:3000", "server base URL")
	rootCmd.Flags().Duration("timeout", pulse.DefaultTimeout, "deadline for one answer")
	rootCmd.Flags().String("corpus", "", "optional JSON file with category-keyed stories to send as newsData")
	rootCmd.Flags().Bool("debug", false, "log retries and skipped stream lines")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	baseURL, _ := cmd.Flags().GetString("url")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	corpusPath, _ := cmd.Flags().GetString("corpus")
	debug, _ := cmd.Flags().GetBool("debug")

	logger := zap.NewNop()
	if debug {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	client := pulse.NewClient(baseURL, pulse.WithTimeout(timeout), pulse.WithLogger(logger))
	assistant := pulse.NewAssistant(client, nil, logger)

	if corpusPath != "" {
		corpus, err := loadCorpus(corpusPath)
		if err != nil {
			return err
		}
		assistant.Corpus = corpus
		color.Cyan("Loaded %d stories from %s", corpus.Size(), corpusPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	color.Cyan("Morning Pulse - ask about today's news (/reset, /quit)")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		color.New(color.FgYellow, color.Bold).Print("\n> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/reset":
			assistant.Reset()
			color.Green("Conversation cleared.")
			continue
		}

		askCtx, cancel := context.WithTimeout(ctx, timeout+5*time.Second)
		reply := assistant.Ask(askCtx, line, func(chunk string) error {
			fmt.Print(chunk)
			return nil
		})
		cancel()
		fmt.Println()

		if ctx.Err() != nil {
			return nil
		}
		printReply(reply)
	}
}

func printReply(reply *pulse.Reply) {
	if reply == nil {
		return
	}
	if reply.Failed {
		color.Red("%s", reply.Formatted.Text)
		return
	}
	if reply.Truncated {
		color.Yellow("(answer was cut off)")
	}
	if len(reply.Formatted.Order) == 0 {
		return
	}
	color.New(color.Faint).Println("\nSources:")
	for _, n := range reply.Formatted.Order {
		c := reply.Formatted.Citations[n]
		line := fmt.Sprintf("  [%d] %s", n, c.Title)
		if c.URL != "" {
			line += " - " + c.URL
		}
		color.New(color.FgHiBlack).Println(line)
	}
}

func loadCorpus(path string) (store.Corpus, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	var corpus store.Corpus
	if err := json.Unmarshal(raw, &corpus); err != nil {
		return nil, fmt.Errorf("parse corpus: %w", err)
	}
	return corpus, nil
}
