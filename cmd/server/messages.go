package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"squadpage/internal/adapters/http/perf"
	storage "squadpage/internal/adapters/storage/message"
	domain "squadpage/internal/domain/message"
)

func messagesCmd() *cobra.Command {
	var tag string
	var personID int
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "Print a guestbook thread from the message store",
		Long: `Print a guestbook thread.

Examples:
  squadpage messages                 # the demo board shown on /berichten
  squadpage messages --student 42    # guestbook of student 42
  squadpage messages --for my-tag    # any raw "for" tag`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case cmd.Flags().Changed("for"):
			case personID > 0:
				tag = domain.StudentTag(personID)
			default:
				tag = domain.DemoTag
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store := storage.NewDirectusStore(newDirectusClient(cfg, perf.NewCollector(0)))
			msgs, err := store.ListByTag(cmd.Context(), tag)
			if err != nil {
				return err
			}
			printThread(cmd.OutOrStdout(), tag, msgs)
			return nil
		},
	}
	cmd.Flags().StringVar(&tag, "for", "", "raw guestbook tag")
	cmd.Flags().IntVar(&personID, "student", 0, "student id")
	return cmd
}

func printThread(w io.Writer, tag string, msgs []domain.Message) {
	header := color.New(color.Bold)
	author := color.New(color.FgCyan)
	dim := color.New(color.Faint)

	header.Fprintf(w, "%s (%d)\n", tag, len(msgs))
	if len(msgs) == 0 {
		dim.Fprintln(w, "  no messages yet")
		return
	}
	for _, m := range msgs {
		from := m.From
		if from == "" {
			from = "anoniem"
		}
		fmt.Fprintf(w, "  %s %s\n", dim.Sprintf("#%d", m.ID), author.Sprint(from))
		for _, line := range strings.Split(strings.TrimRight(m.Text, "\n"), "\n") {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
}
