package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/roomeo/internal/dispatch"
	"github.com/spigell/roomeo/internal/store"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask the housing assistant",
	Long: `Ask the housing assistant a question. With a message the reply is
printed once; without one an interactive session starts (type "exit" to leave).`,
	Run: func(cmd *cobra.Command, args []string) {
		runChat(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().String("transcript", "", "file to keep the conversation in (default from transcript-file config)")
}

func runChat(cmd *cobra.Command, args []string) {
	s := newSession(cmd)

	path, _ := cmd.Flags().GetString("transcript")
	if !cmd.Flags().Changed("transcript") {
		path = s.config.TranscriptFile
	}

	transcript := store.NewTranscript()
	if strings.TrimSpace(path) != "" {
		var err error
		if transcript, err = store.OpenTranscript(path); err != nil {
			s.logger.Fatal("opening transcript", zap.Error(err), zap.String("path", path))
		}
		s.logger.Debug("transcript opened", zap.String("path", path), zap.Int("turns", transcript.Len()))
	}

	c := &chat{
		dispatcher: dispatch.Default(),
		transcript: transcript,
		logger:     s.logger,
		out:        cmd.OutOrStdout(),
	}

	if len(args) > 0 {
		if err := c.ask(strings.Join(args, " ")); err != nil {
			s.logger.Fatal("answering", zap.Error(err))
		}
		return
	}

	if err := c.loop(); err != nil && !errors.Is(err, errExit) {
		s.logger.Fatal("exiting", zap.Error(err))
	}
}

type chat struct {
	dispatcher *dispatch.Dispatcher
	transcript *store.Transcript
	logger     *zap.Logger
	out        io.Writer
}

func (c *chat) ask(message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil
	}

	if _, err := c.transcript.Append(store.SpeakerStudent, message); err != nil {
		return fmt.Errorf("recording message: %w", err)
	}

	reply := c.dispatcher.Dispatch(message)
	c.logger.Debug("chat reply", zap.String("rule", reply.Rule))

	if _, err := c.transcript.Append(store.SpeakerAssistant, reply.Text); err != nil {
		return fmt.Errorf("recording reply: %w", err)
	}

	fmt.Fprintln(c.out, reply.Text)
	return nil
}

func (c *chat) loop() error {
	fmt.Fprintln(c.out, "Hi! Ask me about rooms, roommates, prices or areas near campus.")

	input := promptui.Prompt{Label: "You"}
	for {
		message, err := input.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return errExit
			}
			return err
		}

		switch strings.ToLower(strings.TrimSpace(message)) {
		case "exit", "quit", "bye":
			return errExit
		}

		if err := c.ask(message); err != nil {
			return err
		}
	}
}
