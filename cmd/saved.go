package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/roomeo/internal/store"
)

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "Manage saved rooms and roommates",
}

func init() {
	rootCmd.AddCommand(savedCmd)

	savedCmd.PersistentFlags().String("kind", string(store.KindRooms), "collection: rooms or roommates")

	savedCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved records",
			Args:  cobra.NoArgs,
			Run:   func(cmd *cobra.Command, _ []string) { runSavedList(cmd) },
		},
		savedMutation("add", "Save records", func(s store.SavedStore, k store.Kind, id string) (bool, error) {
			return true, s.Add(k, id)
		}),
		savedMutation("remove", "Remove saved records", func(s store.SavedStore, k store.Kind, id string) (bool, error) {
			return false, s.Remove(k, id)
		}),
		savedMutation("toggle", "Save records that are not saved and remove the rest", func(s store.SavedStore, k store.Kind, id string) (bool, error) {
			return s.Toggle(k, id)
		}),
	)
}

func savedKind(cmd *cobra.Command) (store.Kind, error) {
	raw, _ := cmd.Flags().GetString("kind")
	return store.ParseKind(raw)
}

func savedMutation(use, short string, apply func(store.SavedStore, store.Kind, string) (bool, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			s := newSession(cmd)
			kind, err := savedKind(cmd)
			if err != nil {
				s.logger.Fatal("invalid flags", zap.Error(err))
			}

			saved := s.savedStore()
			for _, id := range args {
				if !s.known(kind, id) {
					s.logger.Warn("no record with this id", zap.String("kind", string(kind)), zap.String("id", id))
				}
				now, err := apply(saved, kind, id)
				if err != nil {
					s.logger.Fatal("updating saved records", zap.Error(err), zap.String("id", id))
				}
				s.logger.Info("saved records updated",
					zap.String("kind", string(kind)),
					zap.String("id", id),
					zap.Bool("saved", now),
					zap.String("store", saved.Path()),
				)
			}
		},
	}
}

func runSavedList(cmd *cobra.Command) {
	s := newSession(cmd)
	kind, err := savedKind(cmd)
	if err != nil {
		s.logger.Fatal("invalid flags", zap.Error(err))
	}

	ids, err := s.savedStore().IDs(kind)
	if err != nil {
		s.logger.Fatal("reading saved records", zap.Error(err))
	}

	out := cmd.OutOrStdout()
	tw := newTable(out, "ID", "NAME")
	for _, id := range ids {
		row(tw, id, s.label(kind, id))
	}
	if err := tw.Flush(); err != nil {
		s.logger.Fatal("writing results", zap.Error(err))
	}
	fmt.Fprintf(out, "%d saved %s\n", len(ids), kind)
}

func (s *session) known(kind store.Kind, id string) bool {
	return s.label(kind, id) != "?"
}

func (s *session) label(kind store.Kind, id string) string {
	switch kind {
	case store.KindRooms:
		if l := s.data.Listings.FindByID(id); l != nil {
			return l.Title
		}
	case store.KindRoommates:
		if p := s.data.Roommates.FindByID(id); p != nil {
			return p.Name
		}
	}
	return "?"
}
