package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	"github.com/msimms/IsTheKegEmpty/pkg/ft232h"
	"github.com/msimms/IsTheKegEmpty/pkg/hx711"
	"github.com/msimms/IsTheKegEmpty/pkg/pins"
)

var log zerolog.Logger

func init() {
	cw := zerolog.ConsoleWriter{Out: os.Stdout}
	log = zerolog.New(cw).With().Timestamp().Logger()
}

type options struct {
	backend string
	clk     string
	dat     string
	device  string
	level   string
	cfg     hx711.Config
}

func flags() (opts options, err error) {
	def := hx711.DefaultConfig()

	backend := flag.String("backend", "ft232h", "Pin backend: ft232h, periph, rpio or gpiomem")
	clk := flag.String("clk", "0", "Clock (PD_SCK) pin: C-bus line for ft232h, BCM number for rpio/gpiomem, name for periph")
	dat := flag.String("dat", "1", "Data (DOUT) pin, same numbering as -clk")
	dev := flag.String("FT232H", "0", "FT232H selector: index, index:N or serial:XYZ")
	gain := flag.String("gain", def.Gain.String(), "Gain: A128, A64 or B32")
	hold := flag.Duration("hold", def.PulseHold, "Clock pulse hold time")
	readyTimeout := flag.Duration("ready-timeout", def.ReadyTimeout, "Maximum wait for data ready")
	readyPoll := flag.Duration("ready-poll", def.ReadyPoll, "Data ready polling interval")
	backoff := flag.Duration("backoff", def.FaultBackoff, "Pause after a hardware fault")
	level := flag.String("level", "info", "Log level")
	flag.Parse()

	opts = options{
		backend: *backend,
		clk:     *clk,
		dat:     *dat,
		device:  *dev,
		level:   *level,
		cfg:     def,
	}

	if opts.cfg.Gain, err = hx711.ParseGain(*gain); err != nil {
		return opts, err
	}
	opts.cfg.PulseHold = *hold
	opts.cfg.ReadyTimeout = *readyTimeout
	opts.cfg.ReadyPoll = *readyPoll
	opts.cfg.FaultBackoff = *backoff

	return opts, opts.cfg.Validate()
}

// pinPair is a clock/data pair plus whatever must be released afterwards.
type pinPair struct {
	clk     hx711.OutputPin
	dat     hx711.InputPin
	release func() error
}

func openPins(opts options) (pp pinPair, err error) {
	switch opts.backend {
	case "ft232h":
		return openFT232H(opts)
	case "periph":
		if err = pins.PeriphInit(); err != nil {
			return pp, err
		}
		if pp.clk, err = pins.NewPeriphClock(opts.clk); err != nil {
			return pp, err
		}
		if pp.dat, err = pins.NewPeriphData(opts.dat); err != nil {
			return pp, err
		}
		pp.release = func() error { return nil }
		return pp, nil
	case "rpio", "gpiomem":
		return openBCM(opts)
	}
	return pp, fmt.Errorf("unknown backend %q", opts.backend)
}

func openFT232H(opts options) (pp pinPair, err error) {
	desc, err := ft232h.ParseDescriptor(opts.device)
	if err != nil {
		return pp, err
	}
	clkN, err := strconv.ParseUint(opts.clk, 10, 8)
	if err != nil {
		return pp, fmt.Errorf("bad -clk: %w", err)
	}
	datN, err := strconv.ParseUint(opts.dat, 10, 8)
	if err != nil {
		return pp, fmt.Errorf("bad -dat: %w", err)
	}

	ft, err := ft232h.ConnectFT232h(desc)
	if err != nil {
		return pp, err
	}

	log.Info().Stringer("info", ft.Info()).
		Msgf("connected to FT232H: %s", ft)

	clk, err := ft.ClockPin(uint(clkN))
	if err != nil {
		return pp, multierr.Append(err, ft.Close())
	}
	dat, err := ft.DataPin(uint(datN))
	if err != nil {
		return pp, multierr.Append(err, ft.Close())
	}

	log.Debug().Stringer("clk", clk).Stringer("dat", dat).Msg("configured FT232H pins")

	return pinPair{clk: clk, dat: dat, release: ft.Close}, nil
}

func openBCM(opts options) (pp pinPair, err error) {
	clkN, err := strconv.Atoi(opts.clk)
	if err != nil {
		return pp, fmt.Errorf("bad -clk: %w", err)
	}
	datN, err := strconv.Atoi(opts.dat)
	if err != nil {
		return pp, fmt.Errorf("bad -dat: %w", err)
	}

	if opts.backend == "rpio" {
		if err = pins.OpenRPIO(); err != nil {
			return pp, err
		}
		pp.release = pins.CloseRPIO
		if pp.clk, err = pins.NewRPIOClock(clkN); err != nil {
			return pp, multierr.Append(err, pp.release())
		}
		if pp.dat, err = pins.NewRPIOData(datN); err != nil {
			return pp, multierr.Append(err, pp.release())
		}
		return pp, nil
	}

	if err = pins.OpenMem(); err != nil {
		return pp, err
	}
	pp.release = pins.CloseMem
	if pp.clk, err = pins.NewMemClock(clkN); err != nil {
		return pp, multierr.Append(err, pp.release())
	}
	if pp.dat, err = pins.NewMemData(datN); err != nil {
		return pp, multierr.Append(err, pp.release())
	}
	return pp, nil
}

func main() {
	opts, err := flags()
	if err != nil {
		log.Fatal().Err(err).Msg("bad configuration")
	}

	lvl, err := zerolog.ParseLevel(opts.level)
	if err != nil {
		log.Fatal().Err(err).Msg("bad log level")
	}
	zerolog.SetGlobalLevel(lvl)

	pp, err := openPins(opts)
	if err != nil {
		log.Fatal().Err(err).Str("backend", opts.backend).Msg("failed to open pins")
	}

	adc, err := hx711.New(pp.clk, pp.dat, opts.cfg)
	if err != nil {
		log.Fatal().Err(multierr.Append(err, pp.release())).Msg("failed to initialize HX711")
	}
	adc.SetLogger(log.With().Str("component", "hx711").Logger())

	log.Info().
		Str("backend", opts.backend).
		Stringer("gain", opts.cfg.Gain).
		Dur("hold", opts.cfg.PulseHold).
		Dur("ready_timeout", opts.cfg.ReadyTimeout).
		Msg("initialized HX711")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		count    uint64
		failures uint64
		started  = time.Now()
	)

	err = adc.Run(ctx, func(s hx711.Sample) {
		count++
		log.Info().
			Str("raw", fmt.Sprintf("0x%06X", uint32(s.Raw))).
			Int32("value", s.Value).
			Stringer("gain", s.Gain).
			Msg("sample")
	}, func(err error) {
		failures++
	})

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("acquisition stopped")
	}

	err = multierr.Append(adc.Close(), pp.release())
	if err != nil {
		log.Error().Err(err).Msg("failed to release HX711 pins")
	}

	log.Info().
		Uint64("samples", count).
		Uint64("failures", failures).
		Dur("elapsed", time.Since(started)).
		Msg("closed HX711")
}
