// Package autoload initializes the global logger from the LOG environment
// on import. main imports it blank so logging is configured before any
// other package runs.
package autoload

import (
	configx "github.com/pattarin/bloodlens/pkg/config"
	logx "github.com/pattarin/bloodlens/pkg/logger"
)

func init() {
	cfg := configx.MustNew[logx.Config]("LOG")
	logx.Init(*cfg)
}
