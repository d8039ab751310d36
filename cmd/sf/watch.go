package main

import (
	"errors"
	"fmt"

	"github.com/sharpfind/sf/internal/events"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Print search and index events from NATS as they arrive",
	GroupID: "index",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.NATS.URL == "" {
			return errors.New("watch needs SF_NATS_URL or [nats] url in the config file")
		}
		topic, _ := cmd.Flags().GetString("topic")

		sub, err := events.NewNATSSubscriber(cfg.NATS.URL)
		if err != nil {
			return err
		}
		defer sub.Close()

		ch, cancel, err := sub.Subscribe(topic)
		if err != nil {
			return err
		}
		defer cancel()

		logger.Info("watching events", "topic", topic)
		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		for {
			select {
			case <-ctx.Done():
				return nil
			case msg, ok := <-ch:
				if !ok {
					return nil
				}
				fmt.Fprintf(out, "%s\t%s\n", msg.Topic, msg.Data)
			}
		}
	},
}

func init() {
	watchCmd.Flags().String("topic", events.TopicAll, "NATS subject to follow (wildcards allowed)")
}
