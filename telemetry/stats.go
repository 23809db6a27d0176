// Package telemetry accumulates simulation events into windowed statistics
// and writes them to CSV for offline analysis.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a tick window.
type WindowStats struct {
	WindowStartTick uint64 `csv:"-"`
	WindowEndTick   uint64 `csv:"window_end"`

	// Population at window end, summed over colonies.
	Queens   int `csv:"queens"`
	Workers  int `csv:"workers"`
	Soldiers int `csv:"soldiers"`
	Eggs     int `csv:"eggs"`
	Larvae   int `csv:"larvae"`

	// Events during the window.
	EggsLaid        int `csv:"eggs_laid"`
	Hatched         int `csv:"hatched"`
	Matured         int `csv:"matured"`
	DeathsOldAge    int `csv:"deaths_old_age"`
	DeathsCombat    int `csv:"deaths_combat"`
	DeathsDrowned   int `csv:"deaths_drowned"`
	DeathsCrushed   int `csv:"deaths_crushed"`
	CombatExchanges int `csv:"combat_exchanges"`
	FoodPickups     int `csv:"food_pickups"`
	FoodCollected   int `csv:"food_collected"`
	Collapses       int `csv:"collapses"`
	RainTicks       int `csv:"rain_ticks"`

	// Colony food at window end.
	FoodMean float64 `csv:"food_mean"`
	FoodMin  float64 `csv:"food_min"`
	FoodMax  float64 `csv:"food_max"`

	// Adult age distribution at window end.
	AgeMean float64 `csv:"age_mean"`
	AgeP10  float64 `csv:"age_p10"`
	AgeP50  float64 `csv:"age_p50"`
	AgeP90  float64 `csv:"age_p90"`

	// Field totals for drift checks.
	PheromoneTotal float64 `csv:"pheromone_total"`
	WaterTotal     int     `csv:"water_total"`
}

// Alive returns the living population including brood.
func (s WindowStats) Alive() int {
	return s.Queens + s.Workers + s.Soldiers + s.Eggs + s.Larvae
}

// Deaths returns the total deaths in the window.
func (s WindowStats) Deaths() int {
	return s.DeathsOldAge + s.DeathsCombat + s.DeathsDrowned + s.DeathsCrushed
}

// distStats computes mean and the 10/50/90 percentiles of values.
func distStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartTick),
		slog.Uint64("window_end", s.WindowEndTick),
		slog.Int("queens", s.Queens),
		slog.Int("workers", s.Workers),
		slog.Int("soldiers", s.Soldiers),
		slog.Int("eggs", s.Eggs),
		slog.Int("larvae", s.Larvae),
		slog.Int("eggs_laid", s.EggsLaid),
		slog.Int("hatched", s.Hatched),
		slog.Int("matured", s.Matured),
		slog.Int("deaths_old_age", s.DeathsOldAge),
		slog.Int("deaths_combat", s.DeathsCombat),
		slog.Int("deaths_drowned", s.DeathsDrowned),
		slog.Int("deaths_crushed", s.DeathsCrushed),
		slog.Int("combat_exchanges", s.CombatExchanges),
		slog.Int("food_pickups", s.FoodPickups),
		slog.Int("food_collected", s.FoodCollected),
		slog.Int("collapses", s.Collapses),
		slog.Int("rain_ticks", s.RainTicks),
		slog.Float64("food_mean", s.FoodMean),
		slog.Float64("food_min", s.FoodMin),
		slog.Float64("food_max", s.FoodMax),
		slog.Float64("age_mean", s.AgeMean),
		slog.Float64("age_p10", s.AgeP10),
		slog.Float64("age_p50", s.AgeP50),
		slog.Float64("age_p90", s.AgeP90),
		slog.Float64("pheromone_total", s.PheromoneTotal),
		slog.Int("water_total", s.WaterTotal),
	)
}

// LogStats logs the window stats at info level.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
