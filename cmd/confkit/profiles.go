package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gobeaver/confkit/profile"
)

func profilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Inspect profile documents",
	}
	cmd.AddCommand(profilesSummaryCmd())
	cmd.AddCommand(profilesValidateCmd())
	cmd.AddCommand(profilesDiffCmd())
	return cmd
}

func profilesSummaryCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary <file>",
		Short: "Summarize the profiles in a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := profile.LoadFile(args[0])
			if err != nil {
				return err
			}
			summaries := store.Summary()
			if asJSON {
				return emitJSON(summaries)
			}
			for _, s := range summaries {
				fmt.Printf("%-24s %d configs", s.Name, s.ConfigCount)
				if len(s.Tags) > 0 {
					fmt.Printf("  [%s]", strings.Join(s.Tags, ", "))
				}
				fmt.Println()
				for _, id := range s.ConfigIDs {
					fmt.Printf("    %s\n", id)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit summaries as JSON")
	return cmd
}

func profilesValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a profile document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := profile.LoadFile(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d profiles ok\n", args[0], store.Len())
			return nil
		},
	}
}

func profilesDiffCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "diff <baseline> <current>",
		Short: "Diff two profile documents by summary",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseline, err := profile.LoadFile(args[0])
			if err != nil {
				return fmt.Errorf("loading baseline: %w", err)
			}
			current, err := profile.LoadFile(args[1])
			if err != nil {
				return fmt.Errorf("loading current: %w", err)
			}

			diff := profile.DiffSummaries(baseline.Summary(), current.Summary())
			if asJSON {
				return emitJSON(diff)
			}
			if diff.Empty() {
				fmt.Println("no changes")
				return nil
			}
			for _, name := range diff.AddedProfiles {
				fmt.Printf("+ profile %s\n", name)
			}
			for _, name := range diff.RemovedProfiles {
				fmt.Printf("- profile %s\n", name)
			}
			for _, delta := range diff.ChangedProfiles {
				fmt.Printf("~ profile %s (%+d configs)\n", delta.Name, delta.CountDelta)
				for _, id := range delta.AddedConfigIDs {
					fmt.Printf("    + %s\n", id)
				}
				for _, id := range delta.RemovedConfigIDs {
					fmt.Printf("    - %s\n", id)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the diff as JSON")
	return cmd
}
