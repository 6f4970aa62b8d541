package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	redisclient "github.com/yungbote/blueprints-backend/internal/clients/redis"
	types "github.com/yungbote/blueprints-backend/internal/domain"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Stream blueprint change events as JSON lines",
	Long: `Subscribe to REDIS_CHANNEL on REDIS_ADDR and print each change event
as one JSON object per line until interrupted.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		bus, err := redisclient.NewEventBus(log, cfg.RedisAddr, cfg.RedisChannel)
		if err != nil {
			return err
		}
		defer bus.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		enc := json.NewEncoder(cmd.OutOrStdout())
		if err := bus.StartForwarder(ctx, func(evt types.Event) {
			if err := enc.Encode(evt); err != nil {
				log.Warn("write event failed", "error", err)
			}
		}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "listening on %s\n", cfg.RedisChannel)
		<-ctx.Done()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}
