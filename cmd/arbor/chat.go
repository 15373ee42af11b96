package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/go-go-golems/arbor/pkg/conversation"
	"github.com/go-go-golems/arbor/pkg/inference"
)

func NewChatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the model from the terminal",
		Long:  "Read-eval-print chat loop. Each exchange extends the conversation tree; type 'exit' to quit.",
		RunE:  runChat,
	}
	cmd.Flags().String("parent", "", "Node id to branch from (default: continue the current thread)")
	cmd.Flags().String("seed", "", "JSON or YAML file with exchanges to seed an empty tree")
	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	settings := settingsFromViper()
	engine, err := inference.NewEngineFromSettings(settings)
	if err != nil {
		return err
	}

	manager, err := newManager(engine, settings, nil)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if seedFile, _ := cmd.Flags().GetString("seed"); seedFile != "" {
		if err := seedTree(manager, settings.Model, seedFile); err != nil {
			return err
		}
	}

	parentID, err := startingParent(cmd, manager)
	if err != nil {
		return err
	}

	if err := engine.Ping(ctx); err != nil {
		fmt.Println("Warning: generation backend is not responding. Please start it for full functionality.")
	}

	fmt.Println("arbor chat is ready. Type 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())

		if strings.EqualFold(input, "exit") {
			log.Info().Msg("user requested exit")
			break
		}
		if input == "" {
			fmt.Println("Please enter a message.")
			continue
		}

		node, err := manager.Chat(ctx, parentID, input)
		if err != nil {
			if errors.Is(err, conversation.ErrGeneration) {
				fmt.Printf("Error: %s\n", err)
				fmt.Println("Please check that the generation backend is running and try again.")
				continue
			}
			return err
		}

		fmt.Printf("AI: %s\n\n", strings.TrimSpace(node.AIResponse))
		parentID = node.ID
	}

	fmt.Println("Chat session ended.")
	return scanner.Err()
}

// startingParent picks the node the next exchange will hang off: the
// --parent flag when given, otherwise the leaf at the end of the leftmost
// thread of the existing tree.
func startingParent(cmd *cobra.Command, manager conversation.Manager) (conversation.NodeID, error) {
	if parent, _ := cmd.Flags().GetString("parent"); parent != "" {
		id, err := conversation.ParseNodeID(parent)
		if err != nil {
			return conversation.NullNode, errors.Wrapf(err, "invalid parent id %s", parent)
		}
		if _, err := manager.GetNode(id); err != nil {
			return conversation.NullNode, err
		}
		return id, nil
	}

	tree := manager.GetTree()
	thread := tree.LeftMostThread(tree.RootID)
	if len(thread) == 0 {
		return conversation.NullNode, nil
	}
	return thread[len(thread)-1], nil
}

func seedTree(manager conversation.Manager, model string, seedFile string) error {
	exchanges, err := conversation.LoadExchangesFromFile(seedFile)
	if err != nil {
		return errors.Wrapf(err, "loading seed file %s", seedFile)
	}

	parentID := conversation.NullNode
	for _, exchange := range exchanges {
		node, err := manager.AddExchange(parentID, exchange.UserInput, exchange.AIResponse, model)
		if err != nil {
			return errors.Wrap(err, "seeding conversation tree")
		}
		parentID = node.ID
	}

	log.Info().Int("exchanges", len(exchanges)).Str("seed", seedFile).Msg("seeded conversation tree")
	return nil
}
