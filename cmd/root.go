package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configDefault string

// globalFlags 所有子命令共享的参数
type globalFlags struct {
	dir    string // 项目根目录
	config string // 指定要使用的配置文件路径
}

var rootFlags = new(globalFlags)

var rootCmd = &cobra.Command{
	Use:   "fast-diary",
	Short: "Fast Diary",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.HelpTemplate()
		cmd.Help()
	},
}

func init() {
	fs := rootCmd.PersistentFlags()
	fs.StringVarP(&rootFlags.dir, "dir", "d", "", "run dir")
	fs.StringVarP(&rootFlags.config, "config", "c", "", "config file")
}

func Execute(c string) {
	configDefault = c
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
