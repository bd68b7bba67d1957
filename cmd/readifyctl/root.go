package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiebiao/readify/internal/infrastructure/config"
	"github.com/xiebiao/readify/pkg/logger"
)

// globalOptions 所有子命令共享的参数
type globalOptions struct {
	configFile string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "readifyctl",
		Short: "readifyctl - Readify 目录服务运维工具",
		Long: `readifyctl 与 API 服务共用同一份配置(config/config.yaml、.env、READIFY_* 环境变量)。

常用命令:
  readifyctl migrate                      建表
  readifyctl seed -f config/fixtures.yaml 导入初始数据`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "配置文件路径(默认按READIFY_ENV查找config/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "输出SQL日志")

	cmd.AddCommand(newMigrateCmd(opts), newSeedCmd(opts))
	return cmd
}

// load 加载配置并创建日志
func (o *globalOptions) load() (*config.Config, *zap.Logger, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configFile != "" {
		cfg, err = config.LoadFrom(o.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, err
	}

	level := "info"
	if o.verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Config{Level: level, Format: "console", Output: "stderr"})
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
