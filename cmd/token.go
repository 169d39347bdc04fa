package cmd

import (
	"fmt"
	"time"

	"MePlay/core/auth"

	"github.com/spf13/cobra"
)

var (
	tokenUserID   int64
	tokenUsername string
	tokenTTL      time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "签发 API 访问令牌",
	Long:  `为指定用户签发 Bearer token, 供 player 的 API_TOKEN 使用。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID := tokenUserID
		if userID == 0 {
			userID = cfg.UserID
		}
		token, err := auth.GenerateToken(cfg.JWTSecret, userID, tokenUsername, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().Int64Var(&tokenUserID, "user", 0, "user id (defaults to USER_ID)")
	tokenCmd.Flags().StringVar(&tokenUsername, "name", "", "username claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 30*24*time.Hour, "token lifetime, 0 for none")
	rootCmd.AddCommand(tokenCmd)
}
