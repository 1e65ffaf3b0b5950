package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Validate(Default()))
}

func TestParseOverridesDefaults(t *testing.T) {
	c, err := Parse([]byte(`
feed:
  type: http
  url: http://localhost:8080/readings
  interval: 2
control:
  step: {total: 100, interval: 0.1}
  realtime: false
  sink: J3
  vehicle:
    base_speed: 1.5
`))
	require.NoError(t, err)
	assert.Equal(t, FeedHTTP, c.Feed.Type)
	assert.Equal(t, 2.0, c.Feed.Interval)
	assert.Equal(t, DefaultFeedTimeout, c.Feed.Timeout)
	assert.Equal(t, int32(100), c.Control.Step.Total)
	assert.False(t, c.Control.Realtime)
	assert.Equal(t, 1.5, c.Control.Vehicle.BaseSpeed)
	assert.Equal(t, DefaultGracePeriod, c.Control.Vehicle.GracePeriod)
}

func TestParseRejectsUnknownField(t *testing.T) {
	_, err := Parse([]byte("control:\n  prefer_fixed_light: true\n"))
	assert.Error(t, err)
}

func TestValidateFeed(t *testing.T) {
	c := Default()
	c.Feed.Type = "websocket"
	assert.Error(t, Validate(c))

	c = Default()
	c.Feed.Type = FeedHTTP
	assert.Error(t, Validate(c))
	c.Feed.URL = "not a url"
	assert.Error(t, Validate(c))
	c.Feed.URL = "https://example.com/process-data"
	assert.NoError(t, Validate(c))

	c = Default()
	c.Feed.Type = FeedMongo
	assert.Error(t, Validate(c))
	c.Feed.DB, c.Feed.Col = "sim", "readings"
	assert.Error(t, Validate(c))
	c.Input.URI = "mongodb://localhost:27017"
	assert.NoError(t, Validate(c))
}

func TestValidateControl(t *testing.T) {
	c := Default()
	c.Control.Vehicle.BaseSpeed = 0
	assert.Error(t, Validate(c))

	c = Default()
	c.Control.Step.Interval = -1
	assert.Error(t, Validate(c))
}

func TestRuntimeConfigSink(t *testing.T) {
	c := Default()
	assert.Equal(t, "J9", NewRuntimeConfig(c, "J9").C.Sink)
	assert.Equal(t, DefaultSink, NewRuntimeConfig(c, "").C.Sink)
	c.Control.Sink = "J2"
	assert.Equal(t, "J2", NewRuntimeConfig(c, "J9").C.Sink)
}
