package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/haierkeys/fast-diary/internal/ui"

	"github.com/spf13/cobra"
)

type writeFlags struct {
	date     string
	text     string
	file     string
	fontSize int
}

func init() {
	wf := new(writeFlags)

	var writeCommand = &cobra.Command{
		Use:   "write [--date YYYY-MM-DD] [--text text | --file path] [--font-size n]",
		Short: "Write the diary entry of a date, replacing its previous text",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := wf.content(cmd)
			if err != nil {
				return err
			}

			a, err := openApp(rootFlags)
			if err != nil {
				return err
			}
			defer a.Shutdown(context.Background())

			ctx := cmd.Context()
			session := ui.NewSession(a.DiaryService, &cliPresenter{date: wf.date, out: cmd.OutOrStdout()}, a.WorkerPool(), a.Logger())
			if err := session.Open(ctx); err != nil {
				return err
			}
			session.SetText(text)
			if wf.fontSize > 0 {
				session.AdjustFontSize(wf.fontSize)
			}
			return session.Save(ctx)
		},
	}

	fs := writeCommand.Flags()
	fs.StringVar(&wf.date, "date", "", "diary date, default today")
	fs.StringVarP(&wf.text, "text", "t", "", "entry text")
	fs.StringVarP(&wf.file, "file", "f", "", "read entry text from file, - for stdin")
	fs.IntVar(&wf.fontSize, "font-size", 0, "font size to save with the entry (12-30)")
	rootCmd.AddCommand(writeCommand)

	var readDate string
	var readCommand = &cobra.Command{
		Use:   "read [--date YYYY-MM-DD]",
		Short: "Print the diary entry of a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rootFlags)
			if err != nil {
				return err
			}
			defer a.Shutdown(context.Background())

			date, err := (&cliPresenter{date: readDate}).PickDate(cmd.Context())
			if err != nil {
				return err
			}
			text, found, err := a.EntryService.Read(cmd.Context(), date)
			if err != nil {
				return err
			}
			if !found {
				fmt.Fprintf(cmd.ErrOrStderr(), "no diary entry for %s\n", date)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
	readCommand.Flags().StringVar(&readDate, "date", "", "diary date, default today")
	rootCmd.AddCommand(readCommand)

	var listCommand = &cobra.Command{
		Use:   "list",
		Short: "List the dates that have a diary entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rootFlags)
			if err != nil {
				return err
			}
			defer a.Shutdown(context.Background())

			dates, err := a.EntryService.ListDates(cmd.Context())
			if err != nil {
				return err
			}
			for _, d := range dates {
				fmt.Fprintln(cmd.OutOrStdout(), d)
			}
			return nil
		},
	}
	rootCmd.AddCommand(listCommand)
}

// content 按 --text、--file 的顺序取正文，都未指定时读 stdin
func (f *writeFlags) content(cmd *cobra.Command) (string, error) {
	if cmd.Flags().Changed("text") {
		return f.text, nil
	}
	var (
		b   []byte
		err error
	)
	if f.file != "" && f.file != "-" {
		b, err = os.ReadFile(f.file)
	} else {
		b, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}
