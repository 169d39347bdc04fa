package cmd

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"MePlay/storage"

	"github.com/spf13/cobra"
)

var (
	minioPrefix    string
	minioStats     bool
	minioRecursive bool
	minioURLKey    string
)

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "MinIO存储桶管理",
	Long:  `列出存储桶中的音频与封面, 查看统计信息, 或为对象生成播放地址。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		store, err := storage.NewObjectStore(cfg)
		if err != nil {
			return err
		}
		if !store.Configured() {
			return fmt.Errorf("MINIO_ENDPOINT is not set")
		}
		fmt.Fprintf(out, "MinIO配置: %s, Bucket: %s\n", cfg.MinioEndpoint, cfg.MinioBucket)

		if minioURLKey != "" {
			u, err := store.URL(cmd.Context(), minioURLKey)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, u)
			return nil
		}

		objects, stats, err := store.ListObjects(cmd.Context(), minioPrefix, minioRecursive)
		if err != nil {
			return fmt.Errorf("列出文件失败: %w", err)
		}

		if !minioStats {
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tSIZE\tTYPE\tMODIFIED")
			for _, o := range objects {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", o.Key, storage.FormatSize(o.Size), o.ContentType,
					o.LastModified.Format("2006-01-02 15:04"))
			}
			w.Flush()
		}

		fmt.Fprintf(out, "\n对象总数: %d, 总大小: %s\n", stats.TotalObjects, storage.FormatSize(stats.TotalSize))
		types := make([]string, 0, len(stats.ByType))
		for t := range stats.ByType {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Fprintf(out, "  %-28s %s\n", t, storage.FormatSize(stats.ByType[t]))
		}
		return nil
	},
}

func init() {
	minioCmd.Flags().StringVarP(&minioPrefix, "prefix", "p", "", "对象前缀")
	minioCmd.Flags().BoolVarP(&minioStats, "stats", "s", false, "只显示统计信息")
	minioCmd.Flags().BoolVarP(&minioRecursive, "recursive", "r", true, "递归列出")
	minioCmd.Flags().StringVar(&minioURLKey, "url", "", "为对象生成播放地址")
	rootCmd.AddCommand(minioCmd)
}
