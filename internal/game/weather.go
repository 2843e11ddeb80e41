package game

// Source yields uniform draws on [0,1). *math/rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// DrawWeather never yields Thunderstorm; storms only come from StormStrikes.
func DrawWeather(rng Source, w WeatherWeights) Weather {
	r := rng.Float64()
	switch {
	case r < w.Sunny:
		return Sunny
	case r < w.Sunny+w.Cloudy:
		return Cloudy
	default:
		return HotDry
	}
}

// StormStrikes consumes a draw only on cloudy days.
func StormStrikes(rng Source, drawn Weather, chance float64) bool {
	return drawn == Cloudy && rng.Float64() < chance
}
