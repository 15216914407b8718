package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/glosa/pkg/adapters/local"
)

var getUUID string

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Fetch a single annotation by uuid (local adapter only)",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if getUUID == "" {
			fmt.Println("Error: --uuid is required")
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

		store, ok := service.Backend().(*local.Store)
		if !ok {
			fatal("get requires the local adapter", fmt.Errorf("configured adapter is %q", cfg.Adapter))
		}

		ann, found, err := store.Cached(getUUID)
		if err != nil {
			fatal("Failed to read annotation", err)
		}
		if !found {
			fmt.Printf("Annotation %s not found\n", getUUID)
			os.Exit(1)
		}

		out, _ := json.MarshalIndent(ann, "", "  ")
		fmt.Println(string(out))
	},
}

func init() {
	getCmd.Flags().StringVar(&getUUID, "uuid", "", "Annotation uuid (required)")
	rootCmd.AddCommand(getCmd)
}
