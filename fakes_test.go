package visio

import (
	"fmt"

	"github.com/swdee/go-visio/vl53l1x"
)

// fakeSensor returns a fixed distance per region.  After each StartRanging
// the status script is played back, then final is returned on every poll.
type fakeSensor struct {
	readings Distances
	script   []vl53l1x.RangeStatus
	final    vl53l1x.RangeStatus
	// statusErrs fails this many polls after each start
	statusErrs int

	center vl53l1x.ROICenter
	polls  int
	calls  []string

	failOp string
	err    error

	initErr, modeErr, budgetErr, periodErr, roiErr error
	voltage                                        vl53l1x.IOVoltage
	mode                                           vl53l1x.DistanceMode
	budget, period                                 uint32
	roi                                            vl53l1x.ROI
}

func (s *fakeSensor) do(op string) error {
	s.calls = append(s.calls, op)
	if op == s.failOp {
		return s.err
	}
	return nil
}

func (s *fakeSensor) StopRanging() error {
	return s.do("stop")
}

func (s *fakeSensor) SetROICenter(center vl53l1x.ROICenter) error {
	s.center = center
	return s.do(fmt.Sprintf("center:%d", center.SPAD))
}

func (s *fakeSensor) StartRanging() error {
	s.polls = 0
	return s.do("start")
}

func (s *fakeSensor) GetRangeStatus() (vl53l1x.RangeStatus, error) {
	s.polls++
	if s.polls <= s.statusErrs {
		return vl53l1x.NoneStatus, fmt.Errorf("status read %d failed", s.polls)
	}
	n := s.polls - s.statusErrs - 1
	if n < len(s.script) {
		return s.script[n], nil
	}
	return s.final, nil
}

func (s *fakeSensor) ClearInterrupt() error {
	return s.do("clear")
}

func (s *fakeSensor) GetDistance() (uint16, error) {
	if err := s.do("distance"); err != nil {
		return 0, err
	}
	for i, c := range ROICenters {
		if c == s.center {
			return s.readings[i], nil
		}
	}
	return 0, fmt.Errorf("no region at SPAD %d", s.center.SPAD)
}

func (s *fakeSensor) Init(voltage vl53l1x.IOVoltage) error {
	s.calls = append(s.calls, "init")
	s.voltage = voltage
	return s.initErr
}

func (s *fakeSensor) SetDistanceMode(mode vl53l1x.DistanceMode) error {
	s.calls = append(s.calls, "mode")
	s.mode = mode
	return s.modeErr
}

func (s *fakeSensor) SetTimingBudget(budget uint32) error {
	s.calls = append(s.calls, "budget")
	if s.budgetErr != nil {
		return s.budgetErr
	}
	s.budget = budget
	return nil
}

func (s *fakeSensor) SetInterMeasurementPeriod(period uint32) error {
	s.calls = append(s.calls, "period")
	s.period = period
	return s.periodErr
}

func (s *fakeSensor) SetROI(roi vl53l1x.ROI) error {
	s.calls = append(s.calls, "roi")
	if s.roiErr != nil {
		return s.roiErr
	}
	s.roi = roi
	return nil
}

// uniform returns readings with the same distance in every region
func uniform(d uint16) Distances {
	var r Distances
	for i := range r {
		r[i] = d
	}
	return r
}

type pwmWrite struct {
	ch      Channel
	on, off uint16
}

// fakePWM records channel writes and fails the write numbered failAt
type fakePWM struct {
	writes []pwmWrite
	failAt int
	err    error
}

func newFakePWM() *fakePWM {
	return &fakePWM{failAt: -1}
}

func (p *fakePWM) SetChannelOnOff(ch Channel, on, off uint16) error {
	if len(p.writes) == p.failAt {
		return p.err
	}
	p.writes = append(p.writes, pwmWrite{ch: ch, on: on, off: off})
	return nil
}

// offTicks returns the off tick last written to each motor channel
func (p *fakePWM) offTicks() Strengths {
	var s Strengths
	for _, w := range p.writes {
		if w.ch <= C15 {
			s[w.ch] = w.off
		}
	}
	return s
}

type fakeScreen struct {
	texts []string
	err   error
	// onShow is called after each text is shown
	onShow func(text string)
}

func (s *fakeScreen) ShowText(text string) error {
	if s.err != nil {
		return s.err
	}
	s.texts = append(s.texts, text)
	if s.onShow != nil {
		s.onShow(text)
	}
	return nil
}

func (s *fakeScreen) last() string {
	if len(s.texts) == 0 {
		return ""
	}
	return s.texts[len(s.texts)-1]
}
