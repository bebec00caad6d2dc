/*
 * vdevd
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
vdevd main entry point for the standalone server.

Features:

- Websocket API to query and subscribe to the vertex graph of a user.

- Management of the user directory.

The server is started with the server command. All commands read the
configuration file given by --config (the file is created with default
values if it does not exist).
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"devt.de/krotik/vdevd/api/ac"
	"devt.de/krotik/vdevd/config"
	"devt.de/krotik/vdevd/server"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "vdevd",
	Short: fmt.Sprintf("%v %v - vertex graph server", config.ProductName, config.ProductVersion),
	Long: `vdevd serves the vertex graph of a device filesystem over a websocket API.
Clients authenticate, query vertices and get pushed updates when vertex data changes.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadConfigFile(configFile)
	},
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the vdevd server",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		server.StartServer()
	},
}

var useraddCmd = &cobra.Command{
	Use:   "useradd <user> <password> [uid]",
	Short: "Add a user to the user directory (a uid is generated if omitted)",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runUseradd,
}

var userdelCmd = &cobra.Command{
	Use:   "userdel <user>",
	Short: "Remove a user from the user directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserdel,
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List all users of the user directory",
	Args:  cobra.NoArgs,
	RunE:  runUsers,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultConfigFile,
		"Configuration file")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(useraddCmd)
	rootCmd.AddCommand(userdelCmd)
	rootCmd.AddCommand(usersCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

/*
withDirectory runs a function on the configured user directory.
*/
func withDirectory(f func(dir ac.Directory) error) error {
	dir, err := server.OpenDirectory()
	if err != nil {
		return err
	}

	err = f(dir)

	if cerr := dir.Close(); err == nil {
		err = cerr
	}

	return err
}

func runUseradd(cmd *cobra.Command, args []string) error {
	name, password, uid := args[0], args[1], ""

	if len(args) > 2 {
		uid = args[2]
	}

	return withDirectory(func(dir ac.Directory) error {

		if u, err := dir.FindByUsername(name); err != nil {
			return err
		} else if u != nil {
			return fmt.Errorf("User %v already exists", name)
		}

		u, err := ac.NewUser(name, password, uid)
		if err != nil {
			return err
		}

		if err := dir.AddUser(u); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Added user %v (uid: %v)\n", u.Name, u.UID)

		return nil
	})
}

func runUserdel(cmd *cobra.Command, args []string) error {
	return withDirectory(func(dir ac.Directory) error {

		if err := dir.RemoveUser(args[0]); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Removed user %v\n", args[0])

		return nil
	})
}

func runUsers(cmd *cobra.Command, args []string) error {
	return withDirectory(func(dir ac.Directory) error {

		names, err := dir.UserNames()
		if err != nil {
			return err
		}

		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}

		return nil
	})
}
