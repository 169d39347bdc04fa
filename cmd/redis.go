package cmd

import (
	"fmt"

	"MePlay/cache"

	"github.com/spf13/cobra"
)

var redisShowLikes bool

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Redis连接测试",
	Long:  `测试Redis连接是否成功，并进行基本读写操作。--likes 显示当前用户的点赞快照。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Redis配置: %s:%s, DB: %d\n", cfg.RedisHost, cfg.RedisPort, cfg.RedisDB)

		if err := cache.ConnectRedis(cfg); err != nil {
			return fmt.Errorf("无法连接到Redis: %w", err)
		}
		defer cache.CloseRedis()
		fmt.Fprintln(out, "Redis连接成功！")

		if err := cache.TestRedis(cmd.Context(), cache.RedisClient); err != nil {
			return fmt.Errorf("Redis操作测试失败: %w", err)
		}
		fmt.Fprintln(out, "Redis基本操作测试成功！")

		if redisShowLikes {
			ids, err := cache.NewLikeCache(cache.RedisClient, cfg.LikeCacheTTL).Load(cmd.Context(), cfg.UserID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "用户 %d 的点赞快照 (%d): %v\n", cfg.UserID, len(ids), ids)
		}
		return nil
	},
}

func init() {
	redisCmd.Flags().BoolVar(&redisShowLikes, "likes", false, "print the cached like snapshot of USER_ID")
	rootCmd.AddCommand(redisCmd)
}
