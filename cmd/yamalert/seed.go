package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lepicodon/yamalert/pkg/cli"
	"github.com/lepicodon/yamalert/pkg/config"
	"github.com/lepicodon/yamalert/pkg/seed"
	"github.com/lepicodon/yamalert/pkg/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the default template library",
	Long: `Insert the default template library into the configured store.

Seeding only happens when the store is empty; an already-populated store
is left untouched.`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return err
	}

	storage, err := store.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer storage.Close()

	ctx := cli.SetupSignalHandler()
	inserted, err := seed.Apply(ctx, storage)
	if err != nil {
		return cli.NewCommandError("seed", err)
	}

	if inserted == 0 {
		fmt.Println("Store already holds templates; nothing to do.")
	} else {
		fmt.Printf("Inserted %d default template(s).\n", inserted)
	}
	return nil
}
