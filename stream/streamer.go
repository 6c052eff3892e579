package stream

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
)

// Publisher is the part of mqtt.Client the Streamer needs.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Streamer that streams RGB data frames to an ledrx device.
type Streamer struct {
	publisher Publisher
	animation Animation
	topic     string
	interval  time.Duration
	logger    zerolog.Logger
}

// NewStreamer creates an instance of a Streamer.
func NewStreamer(config Config, publisher Publisher, animation Animation, logger zerolog.Logger) *Streamer {
	s := new(Streamer)
	s.publisher = publisher
	s.animation = animation
	s.topic = config.Mqtt.Topics.Stream
	s.interval = time.Duration(float64(time.Second) / config.FrameRate)
	s.logger = logger
	return s
}

// Interval is the time between frames.
func (s *Streamer) Interval() time.Duration {
	return s.interval
}

// SendFrame sends the frame for runtimeMs as binary over MQTT to an ledrx
// device.
func (s *Streamer) SendFrame(runtimeMs int64) error {
	f := s.animation.CalculateFrame(runtimeMs)
	b, err := f.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}
	token := s.publisher.Publish(s.topic, 2, false, b)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("publish frame: %w", token.Error())
	}
	return nil
}

// Run sends frames at the configured rate until ctx is cancelled. Frames are
// stamped with the milliseconds elapsed since Run started.
func (s *Streamer) Run(ctx context.Context) error {
	publishTimer := time.NewTicker(s.interval)
	defer publishTimer.Stop()

	started := time.Now()
	s.logger.Info().
		Str("topic", s.topic).
		Dur("interval", s.interval).
		Msg("streamer starting")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("streamer stopped")
			return ctx.Err()
		case now := <-publishTimer.C:
			runtimeMs := now.Sub(started).Milliseconds()
			if err := s.SendFrame(runtimeMs); err != nil {
				s.logger.Warn().Err(err).Int64("runtimeMs", runtimeMs).Msg("frame dropped")
			}
		}
	}
}
