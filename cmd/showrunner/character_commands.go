package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"showrunner/internal/api"
	"showrunner/internal/logging"
	"showrunner/internal/roster"
)

func newCharacterCommand(ctx *commandContext) *cobra.Command {
	characterCmd := &cobra.Command{
		Use:   "character",
		Short: "Manage the character roster",
	}

	characterCmd.AddCommand(newCharacterListCommand(ctx))
	characterCmd.AddCommand(newCharacterAddCommand(ctx))
	characterCmd.AddCommand(newCharacterRemoveCommand(ctx))
	characterCmd.AddCommand(newCharacterImportCommand(ctx))

	return characterCmd
}

func openRosterStore(ctx *commandContext) (*roster.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	return roster.NewStore(cfg.RosterPath(), logging.NewNop())
}

func newCharacterListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List roster characters",
		RunE: func(cmd *cobra.Command, args []string) error {
			var characters []api.Character
			if client, err := ctx.dialClient(); err == nil {
				resp, listErr := client.RosterList()
				_ = client.Close()
				if listErr != nil {
					return listErr
				}
				characters = resp.Characters
			} else {
				store, storeErr := openRosterStore(ctx)
				if storeErr != nil {
					return storeErr
				}
				for _, ch := range store.List() {
					characters = append(characters, api.FromCharacter(ch))
				}
			}

			if len(characters) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Roster is empty")
				return nil
			}

			sort.Slice(characters, func(i, j int) bool {
				return characters[i].Name < characters[j].Name
			})
			rows := make([][]string, 0, len(characters))
			for _, ch := range characters {
				voice := strings.TrimSpace(ch.VoiceProvider)
				if ch.VoiceID != "" {
					voice = strings.TrimSpace(voice + " " + ch.VoiceID)
				}
				if voice == "" {
					voice = "-"
				}
				rows = append(rows, []string{ch.ID, ch.Name, ch.Role, voice})
			}
			table := renderTable(
				[]string{"ID", "Name", "Role", "Voice"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			)
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}

func newCharacterAddCommand(ctx *commandContext) *cobra.Command {
	var character roster.Character

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or update a roster character",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(character.Name) == "" {
				return errors.New("--name is required")
			}
			if strings.TrimSpace(character.ID) == "" {
				character.ID = slugify(character.Name)
			}
			store, err := openRosterStore(ctx)
			if err != nil {
				return err
			}
			if err := store.Save(character); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved character %s\n", character.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&character.ID, "id", "", "Character identifier (derived from the name when empty)")
	cmd.Flags().StringVar(&character.Name, "name", "", "Character name")
	cmd.Flags().StringVar(&character.Role, "role", "", "Role within the show")
	cmd.Flags().StringVar(&character.Description, "description", "", "Personality description used in prompts")
	cmd.Flags().StringVar(&character.VoiceProvider, "voice-provider", "", "Voice synthesis provider")
	cmd.Flags().StringVar(&character.VoiceID, "voice-id", "", "Provider voice identifier")
	return cmd
}

func slugify(value string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

func newCharacterRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <characterID>",
		Short: "Remove a roster character",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openRosterStore(ctx)
			if err != nil {
				return err
			}
			if err := store.Remove(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed character %s\n", args[0])
			return nil
		},
	}
}

func newCharacterImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import-ai-house",
		Short: "Import the bundled AI house cast",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openRosterStore(ctx)
			if err != nil {
				return err
			}
			added, err := store.ImportSeed()
			if err != nil {
				return err
			}
			if added == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Roster already contains the seed cast")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d characters\n", added)
			return nil
		},
	}
}
