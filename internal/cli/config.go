package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chexlabs/buzzline/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration helpers",
	}

	var out string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Default().SaveToFile(out); err != nil {
				return err
			}
			fmt.Printf("wrote %s (secrets come from BUZZLINE_* env vars)\n", out)
			return nil
		},
	}
	initCmd.Flags().StringVar(&out, "out", "./buzzline.yaml", "Output path")

	cmd.AddCommand(initCmd)
	return cmd
}
