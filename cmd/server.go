package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"MePlay/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "启动 MePlay API 服务器",
	Long:  `启动持久层 HTTP API: 曲库, 点赞与歌单`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.Start(ctx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
