package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/glosa/pkg/adapters/local"
)

var clearYes bool

// clearCmd represents the clear command
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every annotation in the namespace (local adapter only)",
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

		store, ok := service.Backend().(*local.Store)
		if !ok {
			fatal("clear requires the local adapter", fmt.Errorf("configured adapter is %q", cfg.Adapter))
		}

		if !clearYes {
			fmt.Printf("Remove ALL annotations in namespace %q? [y/N] ", cfg.Namespace)
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if strings.ToLower(strings.TrimSpace(answer)) != "y" {
				fmt.Println("Aborted.")
				return
			}
		}

		if err := store.Clear(); err != nil {
			fatal("Failed to clear annotations", err)
		}
		fmt.Println("Cleared.")
	},
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Skip confirmation")
	rootCmd.AddCommand(clearCmd)
}
