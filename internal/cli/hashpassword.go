package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"matchhub/internal/domain/account"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print a bcrypt hash for the password field of auth.yaml",
	Long: `Hash-password reads the password from the argument or, when none is
given, from the first line of stdin.

Examples:
  matchhub hash-password 'correct horse battery'
  echo 'correct horse battery' | matchhub hash-password`,
	Args: cobra.MaximumNArgs(1),
	// no config needed
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		plaintext, err := readPassword(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		hash, err := account.HashPassword(plaintext)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func readPassword(args []string, in io.Reader) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
