package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MePlay/core/player"
	"MePlay/core/session"
	"MePlay/logger"
	"MePlay/server"

	"github.com/spf13/cobra"
)

var playerVolume float64

var playerCmd = &cobra.Command{
	Use:   "player",
	Short: "交互式播放器",
	Long: `连接 MePlay API 并启动交互式播放会话。输入 help 查看命令。
设置 WS_ADDR 时会在该地址提供 /ws/nowplaying 播放状态推送。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, release := newLocalStore(cfg)
		defer release()

		out := player.NewFFplayOutput(cfg.FFplayPath, cfg.FFprobePath)
		s := session.New(newRemote(cfg), out, store, player.WithVolume(playerVolume))
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.Close(closeCtx); err != nil {
				logger.Warn("session close", logger.ErrorField(err))
			}
		}()

		if cfg.WSAddr != "" {
			hub := server.NewHub()
			go hub.Run()
			defer hub.Stop()
			unsubscribe := s.Engine.Subscribe(hub.Broadcast)
			defer unsubscribe()
			go func() {
				if err := server.Serve(ctx, cfg.WSAddr, server.NewNowPlayingRouter(hub)); err != nil {
					logger.Error("now-playing server stopped", logger.ErrorField(err))
				}
			}()
		}

		if err := s.Start(ctx); err != nil {
			// 服务端不可用时仍可用已加载的内容
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d tracks, %d liked. Type help for commands.\n",
			s.Catalog.Len(), s.Likes.Len())

		return runREPL(ctx, newREPL(s, cmd.OutOrStdout()), cmd.InOrStdin())
	},
}

// runREPL reads commands until EOF, quit, or ctx is done.
func runREPL(ctx context.Context, r *repl, in io.Reader) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Fprint(r.out, "> ")
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out)
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if r.exec(ctx, line) {
				return nil
			}
		}
	}
}

func init() {
	playerCmd.Flags().Float64Var(&playerVolume, "volume", 0.7, "initial volume in [0, 1]")
	rootCmd.AddCommand(playerCmd)
}
