package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/matt-g-everett/ledseq/api"
	"github.com/matt-g-everett/ledseq/logging"
	"github.com/matt-g-everett/ledseq/stream"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "ledseq",
	Short:         "Stream chained LED animations over MQTT",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := stream.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if err := logging.Init(config.Log.Level, config.Log.Pretty); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return newApp(config).run(ctx)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "YAML config file.")
}

// mqttLogger routes paho's package-level logging through zerolog.
type mqttLogger struct {
	logger zerolog.Logger
	level  zerolog.Level
}

func (l mqttLogger) Println(v ...interface{}) {
	l.logger.WithLevel(l.level).Msg(fmt.Sprint(v...))
}

func (l mqttLogger) Printf(format string, v ...interface{}) {
	l.logger.WithLevel(l.level).Msgf(format, v...)
}

type app struct {
	config   stream.Config
	logger   zerolog.Logger
	client   mqtt.Client
	streamer *stream.Streamer
	api      *api.Api
}

func newApp(config stream.Config) *app {
	a := new(app)
	a.config = config
	a.logger = logging.Component("app")
	return a
}

func (a *app) handleOnConnect(client mqtt.Client) {
	a.logger.Info().Str("broker", a.config.Mqtt.URL).Msg("Connected")
}

func (a *app) handleConnectionLost(client mqtt.Client, err error) {
	a.logger.Warn().Err(err).Msg("connection lost")
}

func (a *app) connect() error {
	mqtt.ERROR = mqttLogger{logger: logging.Component("mqtt"), level: zerolog.ErrorLevel}

	options := mqtt.NewClientOptions().
		AddBroker(a.config.Mqtt.URL).
		SetClientID(fmt.Sprintf("%s-%s", a.config.Mqtt.ClientID, uuid.NewString()[:8])).
		SetUsername(a.config.Mqtt.Username).
		SetPassword(a.config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true).
		SetOnConnectHandler(a.handleOnConnect).
		SetConnectionLostHandler(a.handleConnectionLost)
	a.client = mqtt.NewClient(options)

	if token := a.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect %s: %w", a.config.Mqtt.URL, token.Error())
	}
	return nil
}

func (a *app) run(ctx context.Context) error {
	scene, err := stream.LoadScene(a.config.Scene, a.config.Pixels, logging.Component("scene"))
	if err != nil {
		return err
	}
	controller := stream.NewController(scene, a.config.FrameRate, logging.Component("controller"))

	if err := a.connect(); err != nil {
		return err
	}
	defer a.client.Disconnect(250)

	a.streamer = stream.NewStreamer(a.config, a.client, controller, logging.Component("streamer"))
	a.api = api.NewApi(a.config.Api.Listen, a.config.Api.Static, controller, logging.Component("api"))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.api.Serve(ctx) })
	g.Go(func() error { return a.streamer.Run(ctx) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	a.logger.Info().Msg("shut down")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logging.Logger().Error().Err(err).Msg("ledseq failed")
		os.Exit(1)
	}
}
