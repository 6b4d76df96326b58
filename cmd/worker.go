/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/easyjob/apiserver/config"
	"github.com/easyjob/apiserver/internal/mq"
	"github.com/easyjob/apiserver/internal/services"
	"github.com/spf13/cobra"
)

// workerCmd consumes application events from the broker.
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume application events",
	Long: `Consume application events from the configured broker and log
them. Requires MQ_BACKEND to be set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		broker, err := mq.New(cmd.Context(), cfg.MQ)
		if err != nil {
			return err
		}
		if broker == nil {
			return errors.New("MQ_BACKEND is not configured")
		}
		defer broker.Close()

		slog.Info("worker started", "backend", cfg.MQ.Backend, "channel", cfg.MQ.Channel)
		err = broker.Subscribe(cmd.Context(), cfg.MQ.Channel, logApplicationEvent)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

// logApplicationEvent records each event. Undecodable messages are
// acknowledged and dropped so they do not redeliver forever.
func logApplicationEvent(ctx context.Context, msg mq.Message) error {
	event, err := services.DecodeApplicationEvent(msg.Data)
	if err != nil {
		slog.WarnContext(ctx, "dropping malformed event", "id", msg.ID, "error", err)
		return nil
	}
	slog.InfoContext(ctx, "application event",
		"id", msg.ID,
		"type", event.Type,
		"application_id", event.ApplicationID,
		"vacancy_id", event.VacancyID,
		"user_id", event.UserID,
		"status", event.Status,
		"occurred_at", event.OccurredAt,
	)
	return nil
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
