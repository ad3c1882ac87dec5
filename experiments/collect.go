package experiments

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/KONPEITO1205/machina/envs"
	"github.com/KONPEITO1205/machina/logger"
	"github.com/KONPEITO1205/machina/policies"
	"github.com/KONPEITO1205/machina/remote"
	"github.com/KONPEITO1205/machina/sampler"
)

func CollectCommand() *cobra.Command {
	var server string
	var episodes int
	var horizon int
	var workers int
	cmd := &cobra.Command{
		Use: "collect",
		RunE: func(cmd *cobra.Command, args []string) error {
			baseSeed := seed
			if baseSeed == 0 {
				baseSeed = uint64(time.Now().UnixNano())
			}

			pairs := make([]sampler.Pair, workers)
			for i := range pairs {
				env := envs.NewCartPole(baseSeed + uint64(i))
				low, high := env.ActionBounds()
				pairs[i] = sampler.Pair{
					Env: env,
					Pol: policies.NewUniformRandomPolicy(low, high, baseSeed+uint64(100+i)),
				}
			}
			perWorker := (episodes + workers - 1) / workers
			epis := sampler.SampleParallel(pairs, perWorker, horizon)

			client := remote.NewEpiClient(server)
			if err := client.PostEpis(epis); err != nil {
				return err
			}
			numStep, err := client.NumStep()
			if err != nil {
				return err
			}
			logger.Logf("pushed %d episodes, server buffers %d steps", len(epis), numStep)
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&server, "server", "127.0.0.1:7000", "Address of the collection server")
	cmd.PersistentFlags().IntVar(&episodes, "episodes", 60, "Number of random episodes to collect")
	cmd.PersistentFlags().IntVar(&horizon, "horizon", 200, "Step cap of each episode")
	cmd.PersistentFlags().IntVar(&workers, "workers", 4, "Number of parallel samplers")
	return cmd
}
