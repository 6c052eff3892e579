package stream

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config for the streamer, its MQTT connection and the control API.
type Config struct {
	Mqtt struct {
		URL      string `yaml:"url" mapstructure:"url"`
		Username string `yaml:"username" mapstructure:"username"`
		Password string `yaml:"password" mapstructure:"password"`
		ClientID string `yaml:"clientId" mapstructure:"clientId"`
		Topics   struct {
			Stream string `yaml:"stream" mapstructure:"stream"`
		} `yaml:"topics" mapstructure:"topics"`
	} `yaml:"mqtt" mapstructure:"mqtt"`
	FrameRate float64 `yaml:"frameRate" mapstructure:"frameRate"`
	Pixels    int     `yaml:"pixels" mapstructure:"pixels"`
	Scene     string  `yaml:"scene" mapstructure:"scene"`
	Api       struct {
		Listen string `yaml:"listen" mapstructure:"listen"`
		Static string `yaml:"static" mapstructure:"static"`
	} `yaml:"api" mapstructure:"api"`
	Log struct {
		Level  string `yaml:"level" mapstructure:"level"`
		Pretty bool   `yaml:"pretty" mapstructure:"pretty"`
	} `yaml:"log" mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mqtt.url", "tcp://localhost:1883")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.clientId", "ledseq")
	v.SetDefault("mqtt.topics.stream", "home/xmastree/stream")
	v.SetDefault("frameRate", 30.0)
	v.SetDefault("pixels", DefaultPixels)
	v.SetDefault("scene", "scene.yaml")
	v.SetDefault("api.listen", ":3000")
	v.SetDefault("api.static", "client/dist")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}

// LoadConfig reads the YAML config at path on top of the defaults. Any key
// can be overridden from the environment with a LEDSEQ_ prefix, for example
// LEDSEQ_MQTT_URL. An empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("LEDSEQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if c.FrameRate <= 0 {
		return Config{}, fmt.Errorf("frameRate must be positive, got %v", c.FrameRate)
	}
	if c.Pixels <= 0 {
		return Config{}, fmt.Errorf("pixels must be positive, got %d", c.Pixels)
	}
	return c, nil
}
