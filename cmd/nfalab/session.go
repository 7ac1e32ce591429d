package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/nfalab/internal/presentation/tui"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persisted simulation sessions",
	Long:  `List, inspect, and remove sessions kept in the configured store (file, redis or memory).`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all sessions",
	Run: func(cmd *cobra.Command, args []string) {
		p := openPersistence(newApp(cmd))
		defer p.Close()

		sessions, err := p.Service.List(cmd.Context())
		if err != nil {
			fail("Error listing sessions: %v", err)
		}

		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return
		}

		fmt.Println("Sessions:")
		for _, s := range sessions {
			fmt.Println("- " + s)
		}
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Replay a session and print its position",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sessionID := args[0]
		asJSON, _ := cmd.Flags().GetBool("json")
		p := openPersistence(newApp(cmd))
		defer p.Close()

		res, err := p.Service.Open(cmd.Context(), sessionID)
		if err != nil {
			fail("Error loading session '%s': %v", sessionID, err)
		}

		if asJSON {
			data, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				fail("Error marshaling session: %v", err)
			}
			fmt.Println(string(data))
			return
		}

		palette := tui.NewPalette(os.Stdout)
		fmt.Printf("session  %s (updated %s)\n", res.Session.ID, res.Session.UpdatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("pattern  %s\n", res.Session.Pattern)
		fmt.Printf("input    %s\n", palette.Input(res.Session.Input, res.View.Index))
		fmt.Printf("step     %d/%d\n", res.View.Index, res.View.Length)
		fmt.Printf("active   %s\n", palette.Active(res.Compilation.NFA, res.View.ActiveIDs))
		fmt.Printf("result   %s\n", palette.Verdict(res.View))
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if all {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		p := openPersistence(newApp(cmd))
		defer p.Close()

		if all, _ := cmd.Flags().GetBool("all"); all {
			ids, err := p.Service.List(cmd.Context())
			if err != nil {
				fail("Error listing sessions: %v", err)
			}
			args = ids
		}

		hasError := false
		for _, sessionID := range args {
			if err := p.Service.Delete(cmd.Context(), sessionID); err != nil {
				fmt.Printf("Error removing '%s': %v\n", sessionID, err)
				hasError = true
			} else {
				fmt.Printf("Removed session '%s'\n", sessionID)
			}
		}

		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)

	sessionInspectCmd.Flags().Bool("json", false, "Print the raw session result as JSON")
	sessionRmCmd.Flags().Bool("all", false, "Remove every session")
}
