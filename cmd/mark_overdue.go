package cmd

import (
	"laundry/internal/adapters/out/kafka"
	"laundry/internal/jobs"

	"github.com/spf13/cobra"
)

var markOverdueCmd = &cobra.Command{
	Use:   "mark-overdue",
	Short: "Run the overdue invoice sweep once and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := current.config.Validate(); err != nil {
			return err
		}
		db, err := openGorm(current.config, current.logger)
		if err != nil {
			return err
		}
		defer closeGorm(db)

		root := NewCompositionRoot(db, kafka.NewNoopPublisher(current.logger), current.logger)
		sweep := jobs.NewOverdueSweepJob(root.CreateMarkOverdueCommandHandler(), current.config.OverdueSweepSchedule, current.logger)

		_, err = sweep.Sweep(cmd.Context())
		return err
	},
}

func init() {
	rootCmd.AddCommand(markOverdueCmd)
}
