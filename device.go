package visio

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"

	"github.com/swdee/go-visio/vl53l1x"
)

const (
	// TimingBudget is the sensor's time per measurement in milliseconds
	TimingBudget uint32 = 33
	// InterMeasurementPeriod is the time between measurement starts in
	// milliseconds
	InterMeasurementPeriod uint32 = 35
	// ConfigErrorDwell is how long a recoverable configuration error stays on
	// the display before setup carries on
	ConfigErrorDwell = 5 * time.Second

	// statusPause keeps each bring-up message readable
	statusPause = 50 * time.Millisecond
)

// ROISize is the region of interest moved over the ROICenters
var ROISize = vl53l1x.ROI{Width: 4, Height: 4}

// Device runs the scan loop: sample all regions, show the distances, drive
// the motors, repeat.
type Device struct {
	sensor Sensor
	pwm    PWM
	screen Screen
	clock  clock.Clock

	scanTimeout time.Duration
	distances   Distances

	// log logger for debugging
	log *log.Logger
}

// New returns a Device scanning with sensor and driving pwm
func New(sensor Sensor, pwm PWM, screen Screen) *Device {
	return NewWithLog(sensor, pwm, screen, log.New(io.Discard, "", log.LstdFlags))
}

// NewWithLog returns a Device with logger to be used for debugging
func NewWithLog(sensor Sensor, pwm PWM, screen Screen, log *log.Logger) *Device {
	return &Device{
		sensor: sensor,
		pwm:    pwm,
		screen: screen,
		clock:  clock.New(),
		log:    log,
	}
}

// SetClock replaces the clock used for display pauses and dwells
func (d *Device) SetClock(c clock.Clock) {
	d.clock = c
}

// SetScanTimeout bounds each full scan of the 16 regions.  Zero, the default,
// waits for the sensor indefinitely.
func (d *Device) SetScanTimeout(timeout time.Duration) {
	d.scanTimeout = timeout
}

// Distances returns the distances of the last scan
func (d *Device) Distances() Distances {
	return d.distances
}

// Setup brings up the sensor once, reporting progress on the display.  The
// PWM generator is expected to come up with every output off.  A failure to
// set the timing budget or the ROI size is shown for ConfigErrorDwell and
// setup continues with the sensor's current setting; any other error is
// returned.  Pauses end early with ctx's error once ctx is done.
func (d *Device) Setup(ctx context.Context) error {

	if err := d.status(ctx, "Display initialized!"); err != nil {
		return err
	}

	if err := d.status(ctx, "Pca9685 init..."); err != nil {
		return err
	}

	if err := d.status(ctx, "TOF init..."); err != nil {
		return err
	}

	if err := d.sensor.Init(vl53l1x.IOVoltage2V8); err != nil {
		return fmt.Errorf("sensor init: %w", err)
	}

	if err := d.sensor.SetDistanceMode(vl53l1x.Short); err != nil {
		return fmt.Errorf("sensor distance mode: %w", err)
	}

	if err := d.sensor.SetTimingBudget(TimingBudget); err != nil {
		if err := d.showConfigError(ctx, err); err != nil {
			return err
		}
	}

	if err := d.sensor.SetInterMeasurementPeriod(InterMeasurementPeriod); err != nil {
		return fmt.Errorf("sensor inter-measurement period: %w", err)
	}

	if err := d.status(ctx, "Ready!"); err != nil {
		return err
	}

	if err := d.status(ctx, "Setting up TOF ROI.."); err != nil {
		return err
	}

	if err := d.sensor.SetROI(ROISize); err != nil {
		if err := d.showConfigError(ctx, err); err != nil {
			return err
		}
	}

	return nil
}

// Step performs one scan cycle.  The motors are only updated after every
// region has been measured.
func (d *Device) Step(ctx context.Context) error {

	if d.scanTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.scanTimeout)
		defer cancel()
	}

	if err := SampleAll(ctx, d.sensor, &d.distances); err != nil {
		return fmt.Errorf("sample distances: %w", err)
	}

	if err := d.screen.ShowText(FormatGrid(d.distances)); err != nil {
		return fmt.Errorf("show distances: %w", err)
	}

	if err := Actuate(d.pwm, MapStrengths(d.distances)); err != nil {
		return fmt.Errorf("actuate motors: %w", err)
	}

	return nil
}

// Run scans until an error occurs or ctx is done.  It never returns nil.
func (d *Device) Run(ctx context.Context) error {

	d.log.Print("Scanning")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := d.Step(ctx); err != nil {
			return err
		}
	}
}

// Halt switches every motor off and blanks the display
func (d *Device) Halt() error {
	return multierr.Combine(
		d.pwm.SetChannelOnOff(ChannelAll, 0, 0),
		d.screen.ShowText(""),
	)
}

func (d *Device) status(ctx context.Context, text string) error {

	d.log.Print(text)

	if err := d.screen.ShowText(text); err != nil {
		return fmt.Errorf("show status: %w", err)
	}

	return d.pause(ctx, statusPause)
}

func (d *Device) showConfigError(ctx context.Context, cfgErr error) error {

	d.log.Printf("Sensor configuration failed: %v", cfgErr)

	if err := d.screen.ShowText(cfgErr.Error()); err != nil {
		return fmt.Errorf("show error: %w", err)
	}

	return d.pause(ctx, ConfigErrorDwell)
}

// pause waits for dur on the device clock or until ctx is done
func (d *Device) pause(ctx context.Context, dur time.Duration) error {

	t := d.clock.Timer(dur)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
