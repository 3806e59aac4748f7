package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ThomasCrouzet/devops-inventory/internal/inventory"
	"github.com/ThomasCrouzet/devops-inventory/internal/util"
	"github.com/spf13/cobra"
)

var sshExec bool

// errLocalServer is returned for servers reached without SSH.
var errLocalServer = errors.New("server is reached locally, not over ssh")

var sshCmd = &cobra.Command{
	Use:   "ssh ID [-- REMOTE COMMAND...]",
	Short: "Print or run the ssh command for a server",
	Long: `Build the ssh command line for a server from HOST, PORT, USER and
SSH_KEY_PATH. The command is printed unless --exec is given. Anything after
-- is passed to ssh as the remote command.

Servers with CONNECT_VIA=local are rejected.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSSH,
}

func init() {
	rootCmd.AddCommand(sshCmd)
	sshCmd.Flags().BoolVar(&sshExec, "exec", false, "run ssh instead of printing the command")
}

func runSSH(cmd *cobra.Command, args []string) error {
	res, err := loadInventory()
	if err != nil {
		return err
	}

	s, ok := inventory.LookupServer(res.Inventory, args[0])
	if !ok {
		return fmt.Errorf("server %s not found", args[0])
	}

	argv, err := sshArgs(s, args[1:])
	if err != nil {
		return err
	}

	if !sshExec {
		fmt.Fprintln(cmd.OutOrStdout(), shellJoin(argv))
		return nil
	}

	sshPath, err := findExecutable("ssh")
	if err != nil {
		return fmt.Errorf("ssh not found in PATH: %w", err)
	}
	logger.Debug("connecting", "server", s.ID, "argv", argv)

	c := execCommand(sshPath, argv[1:]...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}

// sshArgs builds `ssh [-p PORT] [-i KEY] [USER@]HOST [REMOTE...]`.
func sshArgs(s *inventory.Server, remote []string) ([]string, error) {
	if s.ConnectVia == inventory.ConnectViaLocal {
		return nil, fmt.Errorf("%s: %w", s.ID, errLocalServer)
	}
	if s.Host == "" {
		return nil, fmt.Errorf("server %s has no HOST", s.ID)
	}

	argv := []string{"ssh"}
	if s.Port != nil {
		argv = append(argv, "-p", strconv.Itoa(*s.Port))
	}
	if s.SSHKeyPath != "" {
		argv = append(argv, "-i", util.ExpandPath(s.SSHKeyPath))
	}

	target := s.Host
	if s.User != "" {
		target = s.User + "@" + target
	}
	argv = append(argv, target)
	return append(argv, remote...), nil
}

// shellJoin quotes arguments that a POSIX shell would split or expand.
func shellJoin(argv []string) string {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		if a == "" || strings.ContainsAny(a, " \t\n'\"\\$`!*?[]{}()<>|&;#~") {
			a = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
		}
		quoted[i] = a
	}
	return strings.Join(quoted, " ")
}
