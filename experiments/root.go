package experiments

import "github.com/spf13/cobra"

var (
	epoch       int
	batchSize   int
	rlBatchRate float64
	saveDir     string
	runs        int
	seed        uint64
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use: "machina",
	}
	rootCommand.PersistentFlags().IntVarP(&epoch, "epochs", "e", 60, "Number of training epochs per optimization round")
	rootCommand.PersistentFlags().IntVar(&batchSize, "batch-size", 512, "Number of transitions per merged batch")
	rootCommand.PersistentFlags().Float64Var(&rlBatchRate, "rl-batch-rate", 0.9, "Share of each batch drawn from the on-policy trajectory")
	rootCommand.PersistentFlags().StringVarP(&saveDir, "save", "s", "results", "Save the result data in the specified folder")
	rootCommand.PersistentFlags().IntVar(&runs, "runs", 1, "Number of experiment runs")
	rootCommand.PersistentFlags().Uint64Var(&seed, "seed", 0, "Base random seed, 0 seeds from the clock")
	// adding the subcommands here
	rootCommand.AddCommand(CartPoleCommand())
	rootCommand.AddCommand(ServeCommand())
	rootCommand.AddCommand(CollectCommand())
	rootCommand.AddCommand(RedisTestCommand())
	return rootCommand
}
