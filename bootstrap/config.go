package bootstrap

import (
	"github.com/kbukum/speechkit/config"
)

// Config is the constraint for application config types. Any struct that
// embeds config.ServiceConfig satisfies it through promoted methods, as long
// as it does not hide them:
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Store storage.Config `yaml:"store" mapstructure:"store"`
//	}
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
