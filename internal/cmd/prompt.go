package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// confirmWrite asks before replacing an existing file. New files and
// --dangerous-inline runs go ahead without asking.
func confirmWrite(cmd *cobra.Command, dangerousInline bool, target string) error {
	info, err := os.Stat(target)
	switch {
	case os.IsNotExist(err):
		return nil
	case err != nil:
		return fmt.Errorf("check write target %s: %w", target, err)
	case info.IsDir():
		return fmt.Errorf("write target is a directory: %s", target)
	case dangerousInline:
		return nil
	}

	errOut := cmd.ErrOrStderr()
	fmt.Fprintf(errOut, "Warning! this operation will overwrite: %s\n", target)
	fmt.Fprint(errOut, "Continue? [y/N]: ")

	input, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && len(input) == 0 {
		fmt.Fprintln(errOut)
		return fmt.Errorf("write aborted for %s (no confirmation provided; use --dangerous-inline to skip prompts)", target)
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return nil
	default:
		return fmt.Errorf("write aborted for %s", target)
	}
}
