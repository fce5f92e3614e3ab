package cmd

import (
	"context"
	"fmt"

	"github.com/haierkeys/fast-diary/pkg/convert"

	"github.com/spf13/cobra"
)

func init() {
	var fontSizeCommand = &cobra.Command{
		Use:   "font-size [value]",
		Short: "Print or set the saved font size",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rootFlags)
			if err != nil {
				return err
			}
			defer a.Shutdown(context.Background())

			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), a.SettingService.FontSize(cmd.Context()))
				return nil
			}

			size, err := convert.StrTo(args[0]).Int()
			if err != nil {
				return fmt.Errorf("invalid font size %q: %w", args[0], err)
			}
			return a.SettingService.SetFontSize(cmd.Context(), size)
		},
	}
	rootCmd.AddCommand(fontSizeCommand)
}
