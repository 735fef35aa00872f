package service

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leafshare/leafshare/app/core"
	"github.com/leafshare/leafshare/app/logic/v1/process"
	"github.com/leafshare/leafshare/pkg/plugins"
)

type Options struct {
	ConfigPath string
	Init       string
}

func (o *Options) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&o.ConfigPath, "config", "c", "", "init api by given config")
	flagSet.StringVarP(&o.Init, "init", "i", "selfhost", "start service after initialize")
}

func NewCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "service",
		Short: "share service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func setup(opts *Options) *core.Core {
	app := core.MustSetupCore(core.MustLoadBaseConfig(opts.ConfigPath))
	plugins.Setup(app.InstallPlugins, opts.Init)
	return app
}

// 监听 os.Interrupt (Ctrl+C) 和 syscall.SIGTERM (kill)
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func Run(opts *Options) error {
	app := setup(opts)

	ctx, stop := signalContext()
	defer stop()

	p := process.NewProcess(app)
	p.Start()
	defer p.Stop()

	serve(ctx, app)
	return nil
}

func NewProcessCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "process",
		Short: "process",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunProcess(opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func RunProcess(opts *Options) error {
	app := setup(opts)

	ctx, stop := signalContext()
	defer stop()

	p := process.NewProcess(app)
	p.Start()
	fmt.Println("Process starting...")

	<-ctx.Done()
	p.Stop()
	return nil
}
