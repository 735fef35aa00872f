package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leafshare/leafshare/cmd/service"
	_ "github.com/leafshare/leafshare/pkg/plugins/selfhost"
)

func main() {
	root := &cobra.Command{
		Use:   "leafshare",
		Short: "leafshare",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("empty command")
		},
	}

	root.AddCommand(service.NewCommand(), service.NewProcessCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
