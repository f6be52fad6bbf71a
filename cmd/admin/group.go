package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"yatube/internal/repository"
	"yatube/internal/seed"
	"yatube/internal/service"

	"github.com/spf13/cobra"
)

var (
	flagGroupTitle       string
	flagGroupSlug        string
	flagGroupDescription string
)

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage groups",
}

var groupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a group",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := groupService()
		if err != nil {
			return err
		}
		group, err := svc.CreateGroup(commandContext(cmd), service.GroupInput{
			Title:       flagGroupTitle,
			Slug:        flagGroupSlug,
			Description: flagGroupDescription,
		})
		if err != nil {
			return fmt.Errorf("creating group: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created group %q (/group/%s/)\n", group.Title, group.Slug)
		return nil
	},
}

var groupImportCmd = &cobra.Command{
	Use:   "import [file.yml]",
	Short: "Create or update groups from a YAML file (built-in groups when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs := seed.DefaultGroups()
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			if inputs, err = seed.LoadGroups(f); err != nil {
				return err
			}
		}

		svc, err := groupService()
		if err != nil {
			return err
		}
		n, err := svc.ImportGroups(commandContext(cmd), inputs)
		if err != nil {
			return fmt.Errorf("imported %d groups before failing: %w", n, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d groups\n", n)
		return nil
	},
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List groups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := groupService()
		if err != nil {
			return err
		}
		groups, err := svc.ListGroups(commandContext(cmd))
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSLUG\tTITLE")
		for _, g := range groups {
			fmt.Fprintf(w, "%d\t%s\t%s\n", g.ID, g.Slug, g.Title)
		}
		return w.Flush()
	},
}

var groupDeleteCmd = &cobra.Command{
	Use:   "delete <slug>",
	Short: "Delete a group; its posts stay without a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := groupService()
		if err != nil {
			return err
		}
		if err := svc.DeleteGroup(commandContext(cmd), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted group %s\n", args[0])
		return nil
	},
}

func groupService() (*service.GroupService, error) {
	db, err := openDB()
	if err != nil {
		return nil, err
	}
	return service.NewGroupService(repository.NewGroupRepository(db)), nil
}

func init() {
	groupCreateCmd.Flags().StringVar(&flagGroupTitle, "title", "", "Group title (required)")
	groupCreateCmd.Flags().StringVar(&flagGroupSlug, "slug", "", "URL slug (required)")
	groupCreateCmd.Flags().StringVar(&flagGroupDescription, "description", "", "Group description")
	_ = groupCreateCmd.MarkFlagRequired("title")
	_ = groupCreateCmd.MarkFlagRequired("slug")

	groupCmd.AddCommand(groupCreateCmd, groupImportCmd, groupListCmd, groupDeleteCmd)
	rootCmd.AddCommand(groupCmd)
}
