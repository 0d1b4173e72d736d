package eventbus

import "github.com/arenax/arenax/internal/pkg/xredis"

const (
	ModeMemory = "memory"
	ModeRedis  = "redis"
)

type Config struct {
	// Mode is memory (single instance) or redis (bridged across instances).
	Mode    string        `conf:"mode" yaml:"mode" json:"mode"`
	Channel string        `conf:"channel" yaml:"channel" json:"channel"`
	Redis   xredis.Config `conf:"redis" yaml:"redis" json:"redis"`
}
