package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/HPENetworking/topology-openswitch/pkg/shell"
	"github.com/HPENetworking/topology-openswitch/pkg/vtysh"
)

func newProbeCmd() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "probe <host>",
		Short: "Probe a live device for vtysh set-prompt support",
		Long: `Probe opens an SSH session to the device, starts vtysh the way the node
driver does, and reports whether the image supports the "set prompt" command
used for safe prompt matching.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host := args[0]

			fmt.Fprint(os.Stderr, "Password: ")
			password, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return fmt.Errorf("reading password: %w", err)
			}

			conn, err := shell.Dial(shell.SSHConfig{
				Host:     host,
				User:     user,
				Password: string(password),
			})
			if err != nil {
				return err
			}
			defer conn.Close()

			sh := vtysh.NewShell(host, conn)
			if err := sh.Start(); err != nil {
				return err
			}
			defer sh.Exit()

			if sh.SupportsSetPrompt() {
				fmt.Println("set prompt: supported (forced prompt active)")
			} else {
				fmt.Println("set prompt: not supported (matching standard prompts)")
			}

			output, err := sh.Run("show version")
			if err != nil {
				return err
			}
			fmt.Print(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "root", "SSH user")
	return cmd
}
