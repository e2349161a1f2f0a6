package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/academy-tools/internal/daemon"
)

func watchCmd() *cobra.Command {
	var tray bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Recalculate the schedule whenever the state file changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			isHoliday, _, err := holidayOracle()
			if err != nil {
				return err
			}

			systemTray := cfg.Daemon.SystemTray
			if cmd.Flags().Changed("tray") {
				systemTray = tray
			}

			d := daemon.NewDaemon(openStore(), calculatorDefaults(), isHoliday, cfg.Daemon.GetDebounce(), systemTray, logger)

			logger.Info("Starting watch mode",
				zap.String("state_file", cfg.State.File),
				zap.Bool("system_tray", systemTray))

			return d.Start()
		},
	}

	cmd.Flags().BoolVar(&tray, "tray", false, "Show a system tray icon (Windows only)")

	return cmd
}
