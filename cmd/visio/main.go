package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/swdee/go-i2c"
	"go.uber.org/multierr"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"

	"github.com/swdee/go-visio"
	"github.com/swdee/go-visio/display"
	"github.com/swdee/go-visio/sharedbus"
	"github.com/swdee/go-visio/vl53l1x"
)

func main() {

	sensorBus := flag.String("sensor-bus", "/dev/i2c-0", "Path to the I2C bus the VL53L1X is on")
	sharedBus := flag.String("shared-bus", "", "Name of the I2C bus shared by the display and PCA9685, empty for the first one found")
	pwmAddr := flag.Uint("pwm-addr", 0x40, "I2C address of the PCA9685")
	scanTimeout := flag.Duration("scan-timeout", 0, "Give up on a scan of all regions after this long, 0 waits forever")
	verbose := flag.Bool("v", false, "Log bring-up and bus activity to stderr")
	flag.Parse()

	logger := log.New(io.Discard, "", log.LstdFlags)

	if *verbose {
		logger = log.New(os.Stderr, "visio: ", log.LstdFlags)
	}

	if _, err := host.Init(); err != nil {
		log.Fatalf("Host init failed: %v", err)
	}

	bus, err := i2creg.Open(*sharedBus)

	if err != nil {
		log.Fatalf("Open shared bus failed: %v", err)
	}

	shared := sharedbus.New(bus)

	oled, err := ssd1306.NewI2C(shared.Acquire(), &ssd1306.DefaultOpts)

	if err != nil {
		log.Fatalf("Display init failed: %v", err)
	}

	screen, err := display.New(oled)

	if err != nil {
		log.Fatalf("Display font failed: %v", err)
	}

	pwm, err := visio.NewPCA9685(shared.Acquire(), uint16(*pwmAddr))

	if err != nil {
		log.Fatalf("PWM init failed: %v", err)
	}

	tofBus, err := i2c.New(vl53l1x.Address, *sensorBus)

	if err != nil {
		log.Fatalf("Open sensor bus failed: %v", err)
	}

	defer tofBus.Close()

	sensor := vl53l1x.NewWithLog(tofBus, logger)

	dev := visio.NewWithLog(sensor, pwm, screen, logger)
	dev.SetScanTimeout(*scanTimeout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := dev.Setup(ctx)

	if runErr == nil {
		runErr = dev.Run(ctx)
	}

	// motors must not keep buzzing after exit
	haltErr := multierr.Combine(dev.Halt(), oled.Halt(), bus.Close())

	if haltErr != nil {
		logger.Printf("Shutdown: %v", haltErr)
	}

	if runErr != nil && ctx.Err() == nil {
		tofBus.Close()
		log.Fatalf("Visio stopped: %v", runErr)
	}
}
