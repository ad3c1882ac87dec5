package experiments

import (
	"context"
	"path"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/KONPEITO1205/machina/algos/mpc"
	"github.com/KONPEITO1205/machina/analysis"
	"github.com/KONPEITO1205/machina/envs"
	"github.com/KONPEITO1205/machina/logger"
	"github.com/KONPEITO1205/machina/models"
	"github.com/KONPEITO1205/machina/optim"
	"github.com/KONPEITO1205/machina/policies"
	"github.com/KONPEITO1205/machina/sampler"
	"github.com/KONPEITO1205/machina/store"
	"github.com/KONPEITO1205/machina/traj"
)

type CartPoleConfig struct {
	RandomEpisodes  int
	AgentEpisodes   int
	Horizon         int
	Rounds          int
	Hidden          int
	LR              float64
	PlanHorizon     int
	PlanSamples     int
	PlanTemperature float64
	RedisAddr       string
	RedisKey        string
}

func CartPoleCommand() *cobra.Command {
	config := &CartPoleConfig{}
	cmd := &cobra.Command{
		Use: "cartpole",
		RunE: func(cmd *cobra.Command, args []string) error {
			return CartPole(epoch, batchSize, rlBatchRate, saveDir, runs, seed, config)
		},
	}
	cmd.PersistentFlags().IntVar(&config.RandomEpisodes, "random-episodes", 60, "Number of random-policy episodes for the initial trajectory")
	cmd.PersistentFlags().IntVar(&config.AgentEpisodes, "agent-episodes", 10, "Number of on-policy episodes collected per round")
	cmd.PersistentFlags().IntVar(&config.Horizon, "horizon", 200, "Step cap of each collected episode")
	cmd.PersistentFlags().IntVar(&config.Rounds, "rounds", 5, "Number of collect-and-train rounds")
	cmd.PersistentFlags().IntVar(&config.Hidden, "hidden", 200, "Width of the hidden layers of the dynamics model")
	cmd.PersistentFlags().Float64Var(&config.LR, "lr", 1e-3, "Adam learning rate")
	cmd.PersistentFlags().IntVar(&config.PlanHorizon, "plan-horizon", 20, "Lookahead of the shooting planner")
	cmd.PersistentFlags().IntVar(&config.PlanSamples, "plan-samples", 1000, "Candidate action sequences per decision")
	cmd.PersistentFlags().Float64Var(&config.PlanTemperature, "plan-temperature", 0, "Sample sequences by softmax of return instead of taking the best, 0 disables")
	cmd.PersistentFlags().StringVar(&config.RedisAddr, "redis", "", "Reuse random episodes stored at this redis address")
	cmd.PersistentFlags().StringVar(&config.RedisKey, "redis-key", "machina:epis:cartpole", "Redis list holding the random episodes")
	return cmd
}

// CartPole runs the model-based loop on the cartpole task, comparing a model
// fit to the observation change against one fit to the absolute next
// observation
func CartPole(epoch, batchSize int, rlBatchRate float64, saveDir string, runs int, seed uint64, config *CartPoleConfig) error {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	randEpis, err := randomEpisodes(seed, config)
	if err != nil {
		return err
	}

	c := NewComparison(&ComparisonConfig{
		Runs:        runs,
		Epoch:       epoch,
		BatchSize:   batchSize,
		RLBatchRate: rlBatchRate,
		RecordPath:  saveDir,
	})
	c.AddAnalysis("dm_loss", analysis.LossSeries("DynModelLoss"), analysis.LossPlotter(path.Join(saveDir, "plots")))
	c.AddAnalysis("dm_loss_records", analysis.LossSeries("DynModelLoss"), analysis.LossRecorder(saveDir))
	c.AddAnalysis("final_loss", analysis.FinalLoss("DynModelLoss"), analysis.FinalLossPrinter())

	for _, td := range []bool{true, false} {
		td := td
		name := "Absolute"
		if td {
			name = "Delta"
		}
		c.AddExperiment(NewExperiment(name, func(run int) map[string][]float64 {
			return trainCartPole(seed+uint64(run)*1000, epoch, batchSize, rlBatchRate, td, randEpis, config)
		}))
	}

	c.Run(context.Background())
	return nil
}

// collect the random trajectory, going through redis when configured
func randomEpisodes(seed uint64, config *CartPoleConfig) ([]*traj.Epi, error) {
	if config.RedisAddr == "" {
		return collectRandom(seed, config), nil
	}

	st := store.NewRedisStore(config.RedisAddr)
	defer st.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := st.Ping(ctx); err != nil {
		return nil, err
	}
	stored, err := st.Load(ctx, config.RedisKey)
	if err != nil {
		return nil, err
	}
	if len(stored) >= config.RandomEpisodes {
		logger.Logf("loaded %d random episodes from redis", len(stored))
		return stored, nil
	}

	epis := collectRandom(seed, config)
	if err := st.Push(ctx, config.RedisKey, epis); err != nil {
		return nil, err
	}
	logger.Logf("stored %d random episodes in redis", len(epis))
	return epis, nil
}

func collectRandom(seed uint64, config *CartPoleConfig) []*traj.Epi {
	workers := 4
	perWorker := (config.RandomEpisodes + workers - 1) / workers
	pairs := make([]sampler.Pair, workers)
	for i := range pairs {
		env := envs.NewCartPole(seed + uint64(i))
		low, high := env.ActionBounds()
		pairs[i] = sampler.Pair{
			Env: env,
			Pol: policies.NewUniformRandomPolicy(low, high, seed+uint64(100+i)),
		}
	}
	return sampler.SampleParallel(pairs, perWorker, config.Horizon)
}

func trainCartPole(seed uint64, epoch, batchSize int, rlBatchRate float64, td bool,
	randEpis []*traj.Epi, config *CartPoleConfig) map[string][]float64 {

	env := envs.NewCartPole(seed)
	low, high := env.ActionBounds()

	randTraj := traj.NewSeededTraj(seed + 1)
	randTraj.AddEpis(randEpis)
	randTraj.RegisterEpis()

	rlTraj := traj.NewSeededTraj(seed + 2)

	dm := models.NewDynamicsModel(env.ObsDim(), env.AcsDim(), env.ObsDim(),
		[]int{config.Hidden, config.Hidden}, seed+3)
	optimDM := optim.NewAdam(dm.Parameters(), config.LR)

	// pretrain on the random trajectory alone
	result := mpc.TrainDM(rlTraj, randTraj, dm, optimDM, epoch, batchSize, 0, "next_obs", td)
	losses := result["DynModelLoss"]

	for round := 0; round < config.Rounds; round++ {
		planner := policies.NewMPCPolicy(dm, envs.CartPoleReward, low, high,
			config.PlanHorizon, config.PlanSamples, td, seed+uint64(10+round))
		var pol policies.Policy = planner
		if config.PlanTemperature > 0 {
			pol = policies.NewSoftmaxMPCPolicy(planner, config.PlanTemperature, seed+uint64(20+round))
		}
		epis := sampler.Sample(env, pol, config.AgentEpisodes, config.Horizon)

		returns := make([]float64, len(epis))
		for i, e := range epis {
			returns[i] = e.Return()
		}
		logger.Logf("round %d: mean return %.2f, stddev %.2f",
			round+1, stat.Mean(returns, nil), stat.StdDev(returns, nil))

		rlTraj.AddEpis(epis)
		rlTraj.RegisterEpis()
		result = mpc.TrainDM(rlTraj, randTraj, dm, optimDM, epoch, batchSize, rlBatchRate, "next_obs", td)
		losses = append(losses, result["DynModelLoss"]...)
	}

	return map[string][]float64{
		"DynModelLoss": losses,
	}
}
