// SPDX-License-Identifier: BSD-3-Clause

package scanloop

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/openhmk/hmkcore/internal/configstore"
	"github.com/openhmk/hmkcore/pkg/log"
	"github.com/openhmk/hmkcore/service"
)

var _ service.Service = (*ScanLoop)(nil)

// ScanLoop drives Matrix, AdvancedKeys, Layout, DeferredStack, HidComposer,
// and XInput on a fixed cooperative schedule, one goroutine, one tick at
// a time.
type ScanLoop struct {
	config

	mu      sync.Mutex
	started bool

	logger *slog.Logger
	tracer trace.Tracer

	tickRate   uint8
	tickNum    uint64
	currentAKs []configstore.AdvancedKey
}

// New constructs a ScanLoop. WithConfigStore, WithMatrix, WithLayout, and
// WithComposer are required; WithAdvancedKeys and WithXInput are optional.
func New(opts ...Option) *ScanLoop {
	cfg := config{
		serviceName:  "scanloop",
		baseInterval: DefaultBaseInterval,
	}
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	return &ScanLoop{config: cfg, tickRate: 1}
}

// Name implements service.Service.
func (s *ScanLoop) Name() string { return s.serviceName }

// Run implements service.Service. It runs until ctx is canceled, reloading
// every component's profile-scoped state at startup and on every
// subsequent profile switch Layout reports.
func (s *ScanLoop) Run(ctx context.Context, _ nats.InProcessConnProvider) error {
	s.tracer = otel.Tracer(s.serviceName)
	ctx, span := s.tracer.Start(ctx, "Run")
	defer span.End()

	s.logger = log.GetGlobalLogger().With("service", s.serviceName)

	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.mu.Unlock()

	if err := s.validate(); err != nil {
		span.RecordError(err)
		return err
	}

	s.lay.OnProfileChange = func(profile uint8) { s.reloadProfile(ctx, profile) }
	s.reloadProfile(ctx, s.cfg.GetCurrentProfile())

	ticker := time.NewTicker(s.baseInterval)
	defer ticker.Stop()

	s.logger.InfoContext(ctx, "Starting scan loop", "base_interval", s.baseInterval)

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "Scan loop canceled", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			s.tickNum++
			if s.tickRate == 0 || s.tickNum%uint64(s.tickRate) != 0 {
				continue
			}
			if err := s.tick(ctx); err != nil {
				s.logger.ErrorContext(ctx, "Scan tick failed", "error", err)
			}
		}
	}
}

func (s *ScanLoop) validate() error {
	if s.cfg == nil {
		return ErrConfigStoreNil
	}
	if s.mat == nil {
		return ErrMatrixNil
	}
	if s.lay == nil {
		return ErrLayoutNil
	}
	if s.composer == nil {
		return ErrComposerNil
	}
	return nil
}

// reloadProfile re-reads the active profile's actuation map, advanced-key
// table, tick rate, and gamepad configuration into every component that
// caches profile-scoped state. Called at boot and on every profile switch.
func (s *ScanLoop) reloadProfile(ctx context.Context, profile uint8) {
	p := int(profile)

	act, err := s.cfg.GetActuationMap(p)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load actuation map", "profile", p, "error", err)
	} else if err := s.mat.SetActuationMap(act[:s.mat.NumKeys()]); err != nil {
		s.logger.ErrorContext(ctx, "Failed to apply actuation map", "profile", p, "error", err)
	}

	rate, err := s.cfg.GetTickRate(p)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load tick rate", "profile", p, "error", err)
		rate = 1
	}
	if rate == 0 {
		rate = 1
	}
	s.tickRate = rate

	if s.ak != nil {
		s.ak.ClearOnProfileChange()
		aks, err := s.cfg.GetAdvancedKeys(p)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to load advanced keys", "profile", p, "error", err)
		} else if err := s.ak.LoadProfile(aks[:]); err != nil {
			s.logger.ErrorContext(ctx, "Failed to apply advanced keys", "profile", p, "error", err)
		} else {
			s.currentAKs = aks[:]
		}
	}

	if s.xi != nil {
		buttons, err := s.cfg.GetGamepadButtons(p)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to load gamepad buttons", "profile", p, "error", err)
		} else {
			gopts, err := s.cfg.GetGamepadOptions(p)
			if err != nil {
				s.logger.ErrorContext(ctx, "Failed to load gamepad options", "profile", p, "error", err)
			} else if err := s.xi.LoadProfile(buttons, gopts); err != nil {
				s.logger.ErrorContext(ctx, "Failed to apply gamepad configuration", "profile", p, "error", err)
			}
		}
	}
}

// tick runs one full pass: Matrix.Scan, AdvancedKeys/Layout dispatch per
// key, AdvancedKeys' timeout-driven transitions, the HID report chain
// (which drains DeferredStack once nothing changed), and the XInput
// report.
func (s *ScanLoop) tick(ctx context.Context) error {
	results := s.mat.Scan()

	hasNonTapHoldPress := false
	for _, r := range results {
		if akIdx, bound := s.boundAdvancedKey(r.Key); bound {
			if err := s.ak.Process(r.Key, r.IsPressed, r.Distance); err != nil {
				return fmt.Errorf("advanced key %d (ak %d): %w", r.Key, akIdx, err)
			}
			if r.IsPressed && !s.isTapHold(akIdx) {
				hasNonTapHoldPress = true
			}
			continue
		}
		if r.IsPressed {
			hasNonTapHoldPress = true
		}
		if !r.Changed {
			continue
		}
		var err error
		if r.IsPressed {
			err = s.lay.Press(r.Key)
		} else {
			err = s.lay.Release(r.Key)
		}
		if err != nil {
			return fmt.Errorf("key %d: %w", r.Key, err)
		}
	}

	if s.ak != nil {
		s.ak.Tick(ctx, hasNonTapHoldPress)
	}

	if err := s.composer.SendReports(ctx); err != nil {
		return fmt.Errorf("send hid reports: %w", err)
	}

	if s.xi != nil {
		for _, r := range results {
			s.xi.Process(r.Key, r.IsPressed, r.Distance)
		}
		if _, err := s.xi.Finalize(); err != nil {
			return fmt.Errorf("send xinput report: %w", err)
		}
	}

	return nil
}

func (s *ScanLoop) boundAdvancedKey(key int) (int, bool) {
	if s.ak == nil {
		return 0, false
	}
	return s.ak.Bound(key)
}

// isTapHold is used only to decide hold_on_other_key_press's "other"
// qualifier — a Tap-Hold key's own press doesn't count as another key.
func (s *ScanLoop) isTapHold(akIdx int) bool {
	if akIdx < 0 || akIdx >= len(s.currentAKs) {
		return false
	}
	return s.currentAKs[akIdx].Kind == configstore.AkTapHold
}
