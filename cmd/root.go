package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	catalogCmd "github.com/ipetrenko/cardshop/catalog/cmd"
	"github.com/ipetrenko/cardshop/internal/constants"
	"github.com/ipetrenko/cardshop/internal/log"
	relayCmd "github.com/ipetrenko/cardshop/relay/cmd"
	shopCmd "github.com/ipetrenko/cardshop/shop/cmd"
)

func Start() {
	logger := log.InitLogger("/var/log/cardshop.log").
		With().
		Str(log.KeyAppName, constants.AppMainCardshop).
		Str(log.KeyTag, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	rootCmd := &cobra.Command{Use: "cardshop"}
	commands := []*cobra.Command{
		{
			Use:   "shop",
			Short: "Run shop service",
			Run: func(cmd *cobra.Command, args []string) {
				shopCmd.RunShopService(cmd.Context())
			},
		},
		{
			Use:   "relay",
			Short: "Run relay service",
			Run: func(cmd *cobra.Command, args []string) {
				relayCmd.RunRelayService(cmd.Context())
			},
		},
		{
			Use:   "catalog",
			Short: "Run catalog service",
			Run: func(cmd *cobra.Command, args []string) {
				catalogCmd.RunCatalogService(cmd.Context())
			},
		},
	}
	rootCmd.AddCommand(commands...)
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
