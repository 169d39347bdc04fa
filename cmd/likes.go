package cmd

import (
	"encoding/json"
	"fmt"

	"MePlay/core/library"

	"github.com/spf13/cobra"
)

var likesCmd = &cobra.Command{
	Use:   "likes",
	Short: "点赞集合工具",
}

var likesDriftCmd = &cobra.Command{
	Use:   "drift",
	Short: "对比本地点赞快照与服务端",
	Long: `读取 Redis 中的本地点赞快照并与服务端点赞列表对比, 输出两边不一致的歌曲。
不修改任何一边。需要 LIKE_CACHE_ENABLED=true。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, release := newLocalStore(cfg)
		defer release()
		if store == nil {
			return fmt.Errorf("like cache is not available")
		}

		likes := library.NewLikeSet(newRemote(cfg), store)
		if err := likes.LoadLocal(cmd.Context()); err != nil {
			return err
		}
		drift, err := likes.Reconcile(cmd.Context())
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(drift); err != nil {
			return err
		}
		if !drift.Empty() {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d local-only, %d remote-only\n", len(drift.LocalOnly), len(drift.RemoteOnly))
		}
		return nil
	},
}

func init() {
	likesCmd.AddCommand(likesDriftCmd)
	rootCmd.AddCommand(likesCmd)
}
