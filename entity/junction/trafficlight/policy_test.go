package trafficlight

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/airsafe-sim/entity"
)

func readings(aqi, noise, humidity *float64) entity.Readings {
	return entity.Readings{AirQuality: aqi, NoiseLevel: noise, Humidity: humidity}
}

func optional(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return lo.ToPtr(v)
}

func TestAssignTable(t *testing.T) {
	cases := []struct {
		name string
		r    entity.Readings
		want entity.SignalState
	}{
		{"zero aqi", readings(lo.ToPtr(0.0), nil, nil), entity.SignalSafe},
		{"unknown aqi", readings(nil, nil, nil), entity.SignalSafe},
		{"unknown aqi with noise", readings(nil, lo.ToPtr(95.0), lo.ToPtr(90.0)), entity.SignalSafe},
		{"small aqi", readings(lo.ToPtr(0.5), nil, nil), entity.SignalCaution},
		{"moderate aqi", readings(lo.ToPtr(150.0), nil, nil), entity.SignalCaution},
		{"boundary aqi", readings(lo.ToPtr(200.0), nil, nil), entity.SignalCaution},
		{"high aqi", readings(lo.ToPtr(201.0), nil, nil), entity.SignalUnsafe},
		{"negative aqi", readings(lo.ToPtr(-1.0), nil, nil), entity.SignalUnsafe},
		{"negative noise", readings(lo.ToPtr(0.0), lo.ToPtr(-3.0), nil), entity.SignalUnsafe},
		{"negative humidity", readings(nil, nil, lo.ToPtr(-0.1)), entity.SignalUnsafe},
		{"invalid aqi", readings(lo.ToPtr(math.NaN()), nil, nil), entity.SignalUnsafe},
		{"infinite aqi", readings(lo.ToPtr(math.Inf(1)), nil, nil), entity.SignalUnsafe},
		{"negative infinite humidity", readings(lo.ToPtr(10.0), nil, lo.ToPtr(math.Inf(-1))), entity.SignalUnsafe},
		{"negative infinite aqi", readings(lo.ToPtr(math.Inf(-1)), nil, nil), entity.SignalUnsafe},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Assign(c.r))
		})
	}
}

func TestAssignProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	value := gen.Float64Range(-50, 600)

	properties.Property("assign is total and deterministic", prop.ForAll(
		func(aqi, noise, humidity float64, hasAQI, hasNoise, hasHumidity bool) bool {
			r := readings(optional(aqi, hasAQI), optional(noise, hasNoise), optional(humidity, hasHumidity))
			s := Assign(r)
			valid := s == entity.SignalSafe || s == entity.SignalCaution || s == entity.SignalUnsafe
			return valid && s == Assign(r)
		},
		value, value, value, gen.Bool(), gen.Bool(), gen.Bool(),
	))

	properties.Property("any negative reading is unsafe", prop.ForAll(
		func(neg, a, b float64, which int) bool {
			vals := []*float64{lo.ToPtr(a), lo.ToPtr(b), nil}
			vals[which] = lo.ToPtr(neg)
			return Assign(readings(vals[0], vals[1], vals[2])) == entity.SignalUnsafe
		},
		gen.Float64Range(-1000, -0.001), gen.Float64Range(0, 500), gen.Float64Range(0, 500), gen.IntRange(0, 2),
	))

	properties.Property("noise and humidity do not matter when non-negative", prop.ForAll(
		func(aqi, noise, humidity float64) bool {
			base := Assign(readings(lo.ToPtr(aqi), nil, nil))
			return base == Assign(readings(lo.ToPtr(aqi), lo.ToPtr(noise), lo.ToPtr(humidity)))
		},
		gen.Float64Range(0, 600), gen.Float64Range(0, 200), gen.Float64Range(0, 100),
	))

	properties.TestingRun(t)
}

func TestAlerts(t *testing.T) {
	assert.Empty(t, Alerts(readings(lo.ToPtr(10.0), lo.ToPtr(40.0), nil)))

	alerts := Alerts(readings(lo.ToPtr(-5.0), lo.ToPtr(60.0), lo.ToPtr(-1.0)))
	assert.Equal(t, []Alert{
		{Type: AlertAirQuality, Status: AlertInvalid, Value: -5},
		{Type: AlertHumidity, Status: AlertInvalid, Value: -1},
	}, alerts)
}

func TestBands(t *testing.T) {
	assert.Equal(t, BandUnknown, AQIBand(nil))
	assert.Equal(t, BandUnknown, AQIBand(lo.ToPtr(-1.0)))
	assert.Equal(t, BandGood, AQIBand(lo.ToPtr(50.0)))
	assert.Equal(t, BandModerate, AQIBand(lo.ToPtr(51.0)))
	assert.Equal(t, BandUnhealthy, AQIBand(lo.ToPtr(200.0)))
	assert.Equal(t, BandVeryUnhealthy, AQIBand(lo.ToPtr(300.0)))
	assert.Equal(t, BandHazardous, AQIBand(lo.ToPtr(301.0)))

	assert.Equal(t, BandGood, NoiseBand(lo.ToPtr(50.0)))
	assert.Equal(t, BandUnhealthy, NoiseBand(lo.ToPtr(90.0)))
	assert.Equal(t, BandHazardous, NoiseBand(lo.ToPtr(90.5)))

	assert.Equal(t, BandGood, HumidityBand(lo.ToPtr(30.0)))
	assert.Equal(t, BandSensitive, HumidityBand(lo.ToPtr(80.0)))
	assert.Equal(t, BandUnhealthy, HumidityBand(lo.ToPtr(81.0)))
	assert.Equal(t, "very unhealthy", BandVeryUnhealthy.String())
}
