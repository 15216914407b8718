package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/glosa"
)

var deleteUUID string

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete an annotation by uuid",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if deleteUUID == "" {
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

		ann := glosa.Annotation{"uuid": deleteUUID}
		if _, err := service.Delete(context.Background(), ann); err != nil {
			fatal("Failed to delete annotation", err)
		}
		fmt.Printf("Deleted annotation %s\n", deleteUUID)
	},
}

func init() {
	deleteCmd.Flags().StringVar(&deleteUUID, "uuid", "", "Annotation uuid (required)")
	rootCmd.AddCommand(deleteCmd)
}
