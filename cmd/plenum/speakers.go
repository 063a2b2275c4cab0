package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xhad/plenum/pkg/search"
)

func newSpeakersCmd() *cobra.Command {
	var presidents bool

	cmd := &cobra.Command{
		Use:   "speakers",
		Short: "List the distinct speakers found in the search index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := search.NewWithConfig(search.ClientConfig{
				URL:                cfg.Search.URL,
				Index:              cfg.Search.Index,
				Username:           cfg.Search.Username,
				Password:           cfg.Search.Password,
				InsecureSkipVerify: cfg.Search.InsecureSkipVerify,
				BatchSize:          cfg.Search.BatchSize,
			})
			if err != nil {
				return err
			}

			speakers, err := client.Speakers(cmd.Context(), presidents)
			if err != nil {
				return err
			}

			for _, s := range speakers {
				if s.Role != "" {
					fmt.Printf("%s (%s: %s) (%d-%d)\n",
						s.Name, s.Role, s.RoleDescr, s.Period, s.Index)
					continue
				}
				fmt.Printf("%s (%s) (%d-%d)\n", s.Name, s.Party, s.Period, s.Index)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&presidents, "presidents", false, "Only list presidents and vice-presidents")
	return cmd
}
