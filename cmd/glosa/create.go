package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/glosa"
)

var (
	createText string
	createTags []string
	createJSON bool
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an annotation on the configured document",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if createText == "" {
			fmt.Println("Error: --text is required")
			cmd.Usage()
			os.Exit(1)
		}

		cfg, err := loadConfig()
		if err != nil {
			fatal("Failed to load configuration", err)
		}

		service, err := newService(cfg)
		if err != nil {
			fatal("Failed to initialize glosa", err)
		}
		defer service.Close()

		ann := glosa.Annotation{"text": createText}
		if len(createTags) > 0 {
			ann["tags"] = createTags
		}

		if _, err := service.Create(context.Background(), ann); err != nil {
			fatal("Failed to create annotation", err)
		}

		if createJSON {
			out, _ := json.MarshalIndent(ann, "", "  ")
			fmt.Println(string(out))
			return
		}
		fmt.Printf("Created annotation %s\n", ann.UUID())
	},
}

func init() {
	createCmd.Flags().StringVarP(&createText, "text", "t", "", "Annotation text (required)")
	createCmd.Flags().StringSliceVar(&createTags, "tags", nil, "Comma-separated tags")
	createCmd.Flags().BoolVar(&createJSON, "json", false, "Print the stored record as JSON")
	rootCmd.AddCommand(createCmd)
}
