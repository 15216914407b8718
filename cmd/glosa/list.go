package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/glosa"
)

var (
	listURI  string
	listUser string
	listJSON bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List annotations matching the configured document",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fatal("Failed to load configuration", err)
		}

		service, err := newService(cfg)
		if err != nil {
			fatal("Failed to initialize glosa", err)
		}
		defer service.Close()

		page, err := service.Query(context.Background(), glosa.Query{
			URI:  listURI,
			User: listUser,
		})
		if err != nil {
			fatal("Failed to query annotations", err)
		}

		if listJSON {
			out, _ := json.MarshalIndent(page.Results, "", "  ")
			fmt.Println(string(out))
			return
		}

		for _, ann := range page.Results {
			text, _ := ann["text"].(string)
			fmt.Printf("%s  %s  %q\n", ann.UUID(), ann.URI(), text)
		}
		fmt.Printf("%d annotation(s)\n", len(page.Results))
	},
}

func init() {
	listCmd.Flags().StringVar(&listURI, "uri", "", "Filter by document URI (glob patterns allowed)")
	listCmd.Flags().StringVar(&listUser, "user", "", "Filter by user")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(listCmd)
}
