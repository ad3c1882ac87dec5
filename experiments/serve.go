package experiments

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/KONPEITO1205/machina/logger"
	"github.com/KONPEITO1205/machina/remote"
	"github.com/KONPEITO1205/machina/store"
)

func ServeCommand() *cobra.Command {
	var addr string
	var redisAddr string
	var redisKey string
	cmd := &cobra.Command{
		Use: "serve",
		RunE: func(cmd *cobra.Command, args []string) error {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			server := remote.NewEpiServer(ctx, addr)
			server.Start()
			logger.Logf("collecting episodes on %s", addr)

			ticker := time.NewTicker(10 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					logger.Logf("%d steps buffered", server.NumStep())
				case <-sigCh:
					cancel()
					epis := server.Drain()
					logger.Logf("shutting down with %d episodes buffered", len(epis))
					if redisAddr == "" || len(epis) == 0 {
						return nil
					}
					st := store.NewRedisStore(redisAddr)
					defer st.Close()
					sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer scancel()
					if err := st.Push(sctx, redisKey, epis); err != nil {
						return err
					}
					logger.Logf("flushed %d episodes to redis", len(epis))
					return nil
				}
			}
		},
	}
	cmd.PersistentFlags().StringVar(&addr, "addr", "127.0.0.1:7000", "Address to listen on")
	cmd.PersistentFlags().StringVar(&redisAddr, "redis", "", "Flush buffered episodes to this redis address on shutdown")
	cmd.PersistentFlags().StringVar(&redisKey, "redis-key", "machina:epis:cartpole", "Redis list receiving the flushed episodes")
	return cmd
}
