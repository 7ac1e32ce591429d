package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/nfalab/internal/cli"
	"github.com/aretw0/nfalab/internal/share"
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Encode or decode share tokens for a pattern and test string",
}

var shareEncodeCmd = &cobra.Command{
	Use:   "encode <pattern> [input]",
	Short: "Print the share token (or link with --base) of a pattern",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		link := share.Link{Pattern: args[0]}
		if len(args) > 1 {
			link.Input = args[1]
		}

		app := newApp(cmd)
		if _, err := app.Engine.Compile(cmd.Context(), link.Pattern); err != nil {
			exitOnError(cli.DescribeCompileError(link.Pattern, err))
		}

		base, _ := cmd.Flags().GetString("base")
		if base == "" {
			base = app.Config.Server.ShareBaseURL
		}
		var out string
		var err error
		if base != "" {
			out, err = share.URL(base, link)
		} else {
			out, err = share.Encode(link)
		}
		if err != nil {
			fail("Error: %v", err)
		}
		fmt.Println(out)
	},
}

var shareDecodeCmd = &cobra.Command{
	Use:   "decode <token>",
	Short: "Print the pattern and test string of a share token",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		link, err := share.Decode(args[0])
		if err != nil {
			fail("Error: %v", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		exitOnError(enc.Encode(link))
	},
}

func init() {
	rootCmd.AddCommand(shareCmd)
	shareCmd.AddCommand(shareEncodeCmd)
	shareCmd.AddCommand(shareDecodeCmd)
	shareEncodeCmd.Flags().String("base", "", "Base URL to build a full ?regex= link (default server.share_base_url)")
}
