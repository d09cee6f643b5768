package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Zentro/RoRServerBot/internal/client"
	"github.com/Zentro/RoRServerBot/internal/config"
	"github.com/Zentro/RoRServerBot/internal/events"
	"github.com/Zentro/RoRServerBot/internal/store"
	"github.com/Zentro/RoRServerBot/internal/version"
)

var commandRun = &cobra.Command{
	Use:   "run",
	Short: "Connect to every registered server and relay chat",
	Args:  cobra.NoArgs,
	RunE:  runBot,
}

func init() {
	mainCommand.AddCommand(commandRun)
}

func runBot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
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
		return errors.New("no servers registered; use `rorbot server add` first")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var clients []*client.Client
	for _, reg := range regs {
		c := client.New(clientConfig(cfg, reg, logger))
		subscribeConsole(c, reg.Name)
		if err := c.Connect(ctx); err != nil {
			logger.Error("skipping server", "server", reg.Name, "err", err)
			continue
		}
		clients = append(clients, c)
	}
	if len(clients) == 0 {
		return errors.New("could not connect to any registered server")
	}

	// Relay terminal input to every connected server as chat.
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			for _, c := range clients {
				if err := c.SendChat(line); err != nil {
					logger.Error("chat relay failed", "err", err)
				}
			}
		}
		if err := scanner.Err(); err != nil {
			logger.Error("stdin relay stopped", "err", err)
		}
	}()

	<-ctx.Done()
	for _, c := range clients {
		c.Disconnect()
	}
	return nil
}

func clientConfig(cfg config.Config, reg store.ServerRegistration, logger *slog.Logger) client.Config {
	language := cfg.Language
	if reg.Language != "" {
		language = reg.Language
	}
	return client.Config{
		Host:           reg.Host,
		Port:           reg.Port,
		Username:       cfg.Username,
		Password:       reg.Password,
		UserToken:      cfg.UserToken,
		Language:       language,
		ClientName:     "rorbot",
		ClientVersion:  version.VERSION,
		ConnectTimeout: cfg.DialTimeout(),
		Logger:         logger,
	}
}

// subscribeConsole prints the server's notifications to stdout, prefixed
// with the registration name.
func subscribeConsole(c *client.Client, name string) {
	c.RegisterHandler(events.OnConnect, events.HandlerFunc(func(events.Event) {
		fmt.Printf("[%s] connected\n", name)
	}))
	c.RegisterHandler(events.OnDisconnect, events.HandlerFunc(func(events.Event) {
		fmt.Printf("[%s] disconnected\n", name)
	}))
	c.RegisterHandler(events.OnMessage, events.HandlerFunc(func(e events.Event) {
		msg := e.(events.Message)
		if msg.Source < 0 {
			fmt.Printf("[%s] * %s\n", name, msg.Text)
			return
		}
		fmt.Printf("[%s] <%d> %s\n", name, msg.Source, msg.Text)
	}))
	c.RegisterHandler(events.OnEvent, events.HandlerFunc(func(e events.Event) {
		fmt.Printf("[%s] event: %s\n", name, e.(events.Protocol).Tag)
	}))
	c.RegisterHandler(events.OnError, events.HandlerFunc(func(e events.Event) {
		fmt.Printf("[%s] error: %s\n", name, e.(events.Error).Message)
	}))
}
