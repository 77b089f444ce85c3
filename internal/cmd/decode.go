package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/textfind/internal/descriptor"
)

// NewDecodeCommand creates the decode command
func NewDecodeCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "decode DESCRIPTOR...",
		Short: "Split match descriptors into their fields",
		Long: `Decode each DESCRIPTOR and print its fields separated by tabs:

  path  row  col  pos  len  line

Decoding is permissive by default: stray characters in the numeric fields
are dropped and a truncated descriptor yields fewer fields. With --strict
a descriptor must be exactly what find would print.`,
		Example: `  textfind decode '(main.go)[3,0,41,4]TODO: tidy'
  textfind find -p TODO main.go | xargs -d '\n' textfind decode --strict`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, arg := range args {
				fields, err := decodeFields(arg, strict)
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintln(out, strings.Join(fields, "\t")); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "reject anything that is not a well-formed descriptor")

	return cmd
}

func decodeFields(s string, strict bool) ([]string, error) {
	if !strict {
		return descriptor.Decode(s), nil
	}
	if _, err := descriptor.Parse(s); err != nil {
		return nil, fmt.Errorf("decode %q: %w", s, err)
	}
	return descriptor.Decode(s), nil
}
