package app

import (
	"github.com/nguyentranbao-ct/sale-sailor/internal/config"
	"github.com/nguyentranbao-ct/sale-sailor/internal/server"
	"github.com/nguyentranbao-ct/sale-sailor/internal/usecase"
	"github.com/nguyentranbao-ct/sale-sailor/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"
)

// Invoke builds the application graph from the environment and runs funcs
// against it.
func Invoke(funcs ...any) *fx.App {
	conf := config.MustLoad()
	return New(conf, funcs...)
}

func New(conf *config.Config, funcs ...any) *fx.App {
	if err := logger.Configure(conf.Log); err != nil {
		panic(err)
	}
	log := logger.MustNamed("app")
	log.Debugw("config loaded", "config", conf)

	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{
				Logger: log.Desugar(),
			}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Provide(
			newVendors,
			newPublisher,

			usecase.NewSaleUsecase,

			server.NewHandler,
			server.NewEcho,
		),
		fx.Supply(conf),
		fx.Invoke(funcs...),
	)
}
