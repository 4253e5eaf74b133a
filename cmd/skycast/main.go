// Command skycast is a terminal client for the relay: it resolves a place by
// query or coordinates, fetches the weather bundle and prints it. It stands in
// for the web presentation layer and exercises the full resolution pipeline.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/skycast-app/skycast-backend/logger"
	"github.com/skycast-app/skycast-backend/services"
	"github.com/skycast-app/skycast-backend/store"
	"github.com/skycast-app/skycast-backend/types"
)

func main() {
	var (
		relayURL  = flag.String("relay", "http://localhost:8080/api/weather", "relay endpoint URL")
		query     = flag.String("q", "", "city name or 5-digit zip code")
		lat       = flag.Float64("lat", 0, "latitude (with -lon, used as the device fix)")
		lon       = flag.Float64("lon", 0, "longitude (with -lat, used as the device fix)")
		unitFlag  = flag.String("unit", "metric", "unit system: metric or imperial")
		redisAddr = flag.String("redis", "", "redis address for persistent favorites/last location (empty = in-memory)")
		last      = flag.Bool("last", false, "fetch weather for the last saved location")
		favorite  = flag.Bool("fav", false, "toggle the fetched location as a favorite")
	)
	flag.Parse()

	logger.InitLogger()
	log := logger.GetLogger()
	defer func() { _ = logger.Close() }()

	unit := types.UnitSystem(*unitFlag)
	if !unit.Valid() {
		fmt.Fprintf(os.Stderr, "invalid unit %q: use metric or imperial\n", *unitFlag)
		os.Exit(2)
	}

	var kv types.KeyValueStore
	if *redisAddr != "" {
		kv = store.NewRedisStore(redis.NewClient(&redis.Options{Addr: *redisAddr}), "skycast:")
	} else {
		kv = store.NewMemoryStore()
	}

	coordsGiven := flagPassed("lat") && flagPassed("lon")
	var locator types.DeviceLocator
	if coordsGiven {
		fix := types.Coordinates{Lat: *lat, Lon: *lon}
		locator = types.LocatorFunc(func(ctx context.Context) (types.Coordinates, error) {
			return fix, nil
		})
	}

	geocoder := services.NewGeocodingService(*relayURL, "", "US")
	weather := services.NewWeatherService(*relayURL)
	prefs := store.NewPreferenceStore(kv)
	session := services.NewSessionService(geocoder, weather, locator, prefs)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	switch {
	case *query != "":
		err = session.SearchCity(ctx, *query, unit)
	case coordsGiven:
		err = session.UseDeviceLocation(ctx, unit)
	case *last:
		err = session.RestoreLastSession(ctx, unit)
	default:
		fmt.Fprintln(os.Stderr, "nothing to do: pass -q, -lat/-lon, or -last")
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Debugw("Intent failed", "error", err)
	}

	state := session.Snapshot()
	if state.Error != "" {
		fmt.Fprintln(os.Stderr, state.Error)
		os.Exit(1)
	}
	if state.WeatherData == nil {
		fmt.Fprintln(os.Stderr, "no weather data")
		os.Exit(1)
	}

	if *favorite {
		if err := session.ToggleFavorite(ctx); err != nil {
			log.Warnw("Failed to toggle favorite", "error", err)
		}
		state = session.Snapshot()
	}

	printReport(state, unit)
}

func flagPassed(name string) bool {
	passed := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			passed = true
		}
	})
	return passed
}

func printReport(state types.SessionState, unit types.UnitSystem) {
	loc := state.CurrentLocation
	data := state.WeatherData

	place := "Unknown Location"
	if loc != nil {
		place = loc.Name
		if loc.State != "" {
			place += ", " + loc.State
		}
	}

	sym := unit.TempSymbol()
	cur := data.Current
	desc := ""
	if len(cur.Weather) > 0 {
		desc = cur.Weather[0].Description
	}

	fmt.Printf("%s - %s\n", place, desc)
	fmt.Printf("  temp %.1f%s (feels like %.1f%s)  humidity %d%%  wind %.1f  uvi %.1f\n",
		cur.Temp, sym, cur.FeelsLike, sym, cur.Humidity, cur.WindSpeed, cur.UVI)

	for i, day := range data.Daily {
		if i == 0 {
			continue // today is covered by current conditions
		}
		label := time.Unix(day.Dt, 0).UTC().Format("Mon Jan 2")
		fmt.Printf("  %s: %.0f%s / %.0f%s  pop %.0f%%\n",
			label, day.Temp.Min, sym, day.Temp.Max, sym, day.Pop*100)
	}

	for _, alert := range data.Alerts {
		fmt.Printf("  ALERT [%s] %s (until %s)\n",
			alert.SenderName, alert.Event, time.Unix(alert.End, 0).UTC().Format(time.RFC822))
	}

	if len(state.Favorites) > 0 {
		fmt.Print("  favorites:")
		for _, f := range state.Favorites {
			fmt.Printf(" %s;", f.Name)
		}
		fmt.Println()
	}
}
