package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"personnummer/internal/personnummer"
)

const (
	promptText   = "Vad är ditt personnummer? "
	acceptedText = "Korrekt personnummer!"
	rejectedText = "Ej korrekt personnummer: "
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
)

// errInputClosed means stdin ended before a valid identifier was entered.
var errInputClosed = errors.New("input closed before a valid personnummer was entered")

// newRootCmd builds the pnr command tree. now is the reference clock.
func newRootCmd(now func() time.Time) *cobra.Command {
	var noColor bool

	root := &cobra.Command{
		Use:   "pnr",
		Short: "Validate Swedish personnummer and samordningsnummer",
		Long: `pnr asks for a personnummer and keeps asking until a valid one is entered.

Accepted forms are YYMMDD-XXXX, YYMMDD+XXXX (holders aged 100 or more),
YYYYMMDD-XXXX, YYMMDDXXXX and YYYYMMDDXXXX.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.InOrStdin(), cmd.OutOrStdout(), now)
		},
	}
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	root.AddCommand(newCheckCmd(now))
	return root
}

// runInteractive prompts until a valid identifier is read. Every answer is
// validated against the clock at the time it was entered.
func runInteractive(in io.Reader, out io.Writer, now func() time.Time) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, promptText)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return errInputClosed
		}

		verdict := personnummer.Validate(strings.TrimSpace(scanner.Text()), now())
		if verdict.Valid {
			successColor.Fprintln(out, acceptedText)
			return nil
		}
		errorColor.Fprintln(out, rejectedText+verdict.Message)
	}
}
