package main

import (
	"fmt"

	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/spf13/cobra"
)

var manCmd = &cobra.Command{
	Use:                   "man",
	Short:                 "Generates manpages",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Hidden:                true,
	Args:                  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		page, err := manPage()
		if err != nil {
			return err
		}
		fmt.Println(page)
		return nil
	},
}

func manPage() (string, error) {
	page, err := mcobra.NewManPage(1, rootCmd)
	if err != nil {
		return "", fmt.Errorf("unable to generate man page: %w", err)
	}
	page = page.WithSection("Copyright", "(C) Sistem Antrian Modular.\n"+
		"Released under the MIT license.")
	return page.Build(roff.NewDocument()), nil
}
