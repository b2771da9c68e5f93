package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hrcatalog/internal/catalog/events"
	"hrcatalog/internal/platform/kafka/consumer"
)

func newWatchCmd(state *cliState) *cobra.Command {
	var (
		group     string
		kind      string
		fromStart bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print catalog change events from Kafka as JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log := state.cfg, state.logger
			if cfg.KafkaBrokers == "" {
				return errors.New("KAFKA_BROKERS is not set")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			enc := json.NewEncoder(cmd.OutOrStdout())
			handle := consumer.HandlerFunc(func(ctx context.Context, msg *consumer.Message) error {
				env, err := events.Decode(msg.Value)
				if err != nil {
					log.WarnContext(ctx, "skipping undecodable change event",
						"partition", msg.Partition,
						"offset", msg.Offset,
						"error", err,
					)
					return nil
				}
				if kind != "" && env.Kind != kind {
					return nil
				}
				return enc.Encode(env)
			})

			c, err := consumer.New(consumer.Config{
				Brokers:   cfg.KafkaBrokers,
				GroupID:   group,
				Topics:    []string{cfg.KafkaTopic},
				FromStart: fromStart,
			}, handle, log)
			if err != nil {
				return err
			}
			c.Start()
			log.Info("watching change events", "topic", cfg.KafkaTopic, "group", group)

			<-ctx.Done()
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return c.Stop(stopCtx)
		},
	}

	cmd.Flags().StringVar(&group, "group", "hrcatalog-watch", "Kafka consumer group")
	cmd.Flags().StringVar(&kind, "kind", "", "Only print events of this kind, e.g. bank")
	cmd.Flags().BoolVar(&fromStart, "from-start", false, "Start from the oldest retained event when the group has no offsets")
	return cmd
}
