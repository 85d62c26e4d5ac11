package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pawmart/pawmart/internal/build"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "pawmart",
		Short:   "Pet store and registry",
		Long:    "Pawmart is a storefront and pet registry with OIDC login.",
		Version: fmt.Sprintf("%s (%s, %s)", build.Version, build.Commit, build.Branch),
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
