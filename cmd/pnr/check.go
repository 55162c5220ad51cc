package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"personnummer/internal/personnummer"
)

const dateLayout = "2006-01-02"

// errSomeInvalid makes the process exit 1 without printing an error.
var errSomeInvalid = errors.New("one or more identifiers are invalid")

type checkOptions struct {
	date       string
	outputJSON bool
}

type checkResult struct {
	Input   string `json:"input"`
	Valid   bool   `json:"valid"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

func newCheckCmd(now func() time.Time) *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check [personnummer...]",
		Short: "Validate identifiers without prompting",
		Long: `Validate each argument and print one verdict per line. With no arguments,
identifiers are read from stdin, one per line. Exits with status 1 if any
identifier is invalid.`,
		Example: `  pnr check 811218-9876 870101-123
  pnr check --date 2025-12-06 --json < ids.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := now()
			if opts.date != "" {
				t, err := time.Parse(dateLayout, opts.date)
				if err != nil {
					return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
				}
				ref = t
			}

			inputs := args
			if len(inputs) == 0 {
				var err error
				if inputs, err = readLines(cmd.InOrStdin()); err != nil {
					return err
				}
			}
			return runCheck(cmd.OutOrStdout(), inputs, ref, opts.outputJSON)
		},
	}
	cmd.Flags().StringVar(&opts.date, "date", "", "Reference date (YYYY-MM-DD), defaults to today")
	cmd.Flags().BoolVar(&opts.outputJSON, "json", false, "Output one JSON object per line")
	return cmd
}

func runCheck(out io.Writer, inputs []string, ref time.Time, asJSON bool) error {
	enc := json.NewEncoder(out)
	invalid := 0
	for _, raw := range inputs {
		raw = strings.TrimSpace(raw)
		verdict := personnummer.Validate(raw, ref)
		if !verdict.Valid {
			invalid++
		}

		if asJSON {
			if err := enc.Encode(checkResult{
				Input:   raw,
				Valid:   verdict.Valid,
				Reason:  string(verdict.Reason),
				Message: verdict.Message,
			}); err != nil {
				return err
			}
			continue
		}
		if verdict.Valid {
			fmt.Fprintf(out, "%s\t%s\n", raw, successColor.Sprint("valid"))
		} else {
			fmt.Fprintf(out, "%s\t%s %s\n", raw, errorColor.Sprint("invalid:"), verdict.String())
		}
	}
	if invalid > 0 {
		return errSomeInvalid
	}
	return nil
}

func readLines(in io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return lines, nil
}
