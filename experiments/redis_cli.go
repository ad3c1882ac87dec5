package experiments

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KONPEITO1205/machina/store"
)

func RedisTestCommand() *cobra.Command {
	var addr string
	var key string
	cmd := &cobra.Command{
		Use: "redis-cli",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := store.NewRedisStore(addr)
			defer st.Close()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			if err := st.Ping(ctx); err != nil {
				return err
			}
			numEpis, err := st.Len(ctx, key)
			if err != nil {
				return err
			}
			fmt.Printf("%d episodes stored under %s\n", numEpis, key)
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&addr, "addr", "127.0.0.1:6379", "Redis address")
	cmd.PersistentFlags().StringVar(&key, "key", "machina:epis:cartpole", "Redis list to inspect")
	return cmd
}
