package configs

import "github.com/spf13/viper"

// EventsConfig 控制事件发布的开关（全局与分主题）。
type EventsConfig struct {
	Enabled bool             `mapstructure:"enabled"` // 总开关
	File    FileEventsConfig `mapstructure:"file"`
}

// FileEventsConfig 针对文件分享领域的事件开关。
type FileEventsConfig struct {
	Uploaded   bool `mapstructure:"uploaded"`
	Downloaded bool `mapstructure:"downloaded"`
	Deleted    bool `mapstructure:"deleted"`
	Reaped     bool `mapstructure:"reaped"`
}

func (c *EventsConfig) setDefaults(v *viper.Viper) {
	// 总开关：默认启用事件系统
	v.SetDefault("events.enabled", true)

	// 文件领域的事件：默认仅开启最小必要集，避免噪声过大
	v.SetDefault("events.file.uploaded", true)
	v.SetDefault("events.file.deleted", true)
	v.SetDefault("events.file.reaped", true)

	// 下载事件量可能很大，默认关闭
	v.SetDefault("events.file.downloaded", false)
}
