package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zentro/RoRServerBot/internal/store"
)

var commandServer = &cobra.Command{
	Use:   "server",
	Short: "Manage game-server registrations",
}

var serverAddFlags struct {
	host     string
	port     int
	password string
	language string
}

var commandServerAdd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a game server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		return st.Add(&store.ServerRegistration{
			Name:     args[0],
			Host:     serverAddFlags.host,
			Port:     serverAddFlags.port,
			Password: serverAddFlags.password,
			Language: serverAddFlags.language,
		})
	},
}

var commandServerRemove = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a registered game server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		return st.Remove(args[0])
	},
}

var commandServerList = &cobra.Command{
	Use:   "list",
	Short: "List registered game servers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		regs, err := st.List()
		if err != nil {
			return err
		}
		if len(regs) == 0 {
			fmt.Println("no servers registered")
			return nil
		}
		for _, reg := range regs {
			fmt.Printf("%-20s %s:%d\n", reg.Name, reg.Host, reg.Port)
		}
		return nil
	},
}

func init() {
	commandServerAdd.Flags().StringVar(&serverAddFlags.host, "host", "", "server hostname or IP (required)")
	commandServerAdd.Flags().IntVar(&serverAddFlags.port, "port", 12000, "server port")
	commandServerAdd.Flags().StringVar(&serverAddFlags.password, "password", "", "server password")
	commandServerAdd.Flags().StringVar(&serverAddFlags.language, "language", "", "language override for this server")
	commandServerAdd.MarkFlagRequired("host")

	commandServer.AddCommand(commandServerAdd, commandServerRemove, commandServerList)
	mainCommand.AddCommand(commandServer)
}
