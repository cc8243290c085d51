// SPDX-License-Identifier: BSD-3-Clause

// Command hmksim runs the firmware core as a host process: a file-backed
// flash image stands in for the board's flash chip, a synthetic trace
// generator stands in for the Hall-effect sensors, and every HID/XInput
// report is logged rather than sent over real USB. It exists to exercise
// the full scanloop/commandsrv/operator wiring without board hardware.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/openhmk/hmkcore/internal/advancedkeys"
	"github.com/openhmk/hmkcore/internal/boarddef"
	"github.com/openhmk/hmkcore/internal/capability"
	"github.com/openhmk/hmkcore/internal/commandproto"
	"github.com/openhmk/hmkcore/internal/configstore"
	"github.com/openhmk/hmkcore/internal/deferredstack"
	"github.com/openhmk/hmkcore/internal/hid"
	"github.com/openhmk/hmkcore/internal/layout"
	"github.com/openhmk/hmkcore/internal/matrix"
	"github.com/openhmk/hmkcore/internal/simflash"
	"github.com/openhmk/hmkcore/internal/wearlevel"
	"github.com/openhmk/hmkcore/internal/xinput"
	"github.com/openhmk/hmkcore/pkg/log"
	"github.com/openhmk/hmkcore/service/commandsrv"
	"github.com/openhmk/hmkcore/service/ipc"
	"github.com/openhmk/hmkcore/service/operator"
	"github.com/openhmk/hmkcore/service/scanloop"
)

// defaultSimKeys matches boarddef.Generic's intended use: a generic
// 100-key layout when no board TOML is supplied.
const defaultSimKeys = 100

func main() {
	log.SetGlobalLogger(log.NewDefaultLogger())
	logger := log.GetGlobalLogger()

	def, err := loadBoardDef()
	if err != nil {
		panic(err)
	}

	flashPath := os.Getenv("HMKSIM_FLASH_PATH")
	if flashPath == "" {
		flashPath = "hmksim-flash.img"
	}
	dev, err := simflash.Open(flashPath, 4096, 16)
	if err != nil {
		panic(err)
	}
	defer dev.Close() //nolint:errcheck

	wl, err := wearlevel.New(dev, 4096*2, 4096*8)
	if err != nil {
		panic(err)
	}

	cfg := configstore.New(wl, def)
	if err := cfg.Init(); err != nil {
		panic(err)
	}

	board, err := loadBoardControl(logger)
	if err != nil {
		panic(err)
	}
	timer := newRealTimer()
	transport := newConsoleTransport(logger)

	mat := matrix.New(def.NumKeys, def.SwitchTravel, timer, def.InvertADC)
	// The composer runs the deferred-action drain once a tick has no report
	// left to send; the stack itself is built after Layout, which it executes into.
	var deferred *deferredstack.Stack
	composer := hid.New(transport, func() {
		if deferred != nil {
			deferred.Drain()
		}
	})
	lay := layout.New(def.NumKeys, composer, cfg, mat, board)
	if err := lay.ReloadKeymap(); err != nil {
		panic(err)
	}
	deferred = deferredstack.New(lay)
	ak := advancedkeys.New(lay, deferred, lay, timer, mat)
	xi := xinput.New(transport)

	handlers := commandproto.New(
		commandproto.WithConfigStore(cfg),
		commandproto.WithMatrix(mat),
		commandproto.WithBoardControl(board),
		commandproto.WithBoardDefinition(def),
	)

	sl := scanloop.New(
		scanloop.WithConfigStore(cfg),
		scanloop.WithMatrix(mat),
		scanloop.WithLayout(lay),
		scanloop.WithAdvancedKeys(ak),
		scanloop.WithComposer(composer),
		scanloop.WithDeferredStack(deferred),
		scanloop.WithXInput(xi),
	)

	cs := commandsrv.New(
		commandsrv.WithHandlers(handlers),
		commandsrv.WithTransport(transport),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go runSyntheticTrace(ctx, mat, def.NumKeys)

	op := operator.New(
		operator.WithName("hmksim"),
		operator.WithIPC(
			ipc.WithServiceName("ipc"),
			ipc.WithJetStream(false),
			// hmkctl is a separate host process, so the bus needs a real
			// listener — a real board keeps DontListen true and never
			// runs hmkctl against it directly.
			ipc.WithDontListen(false),
		),
		operator.WithScanLoop(sl),
		operator.WithCommandSrv(cs),
	)

	if err := op.Run(ctx, nil); err != nil {
		logger.Error("hmksim exited", "error", err)
		os.Exit(1)
	}
}

// loadBoardDef loads a board TOML from HMKSIM_BOARD_DEF when set
// (boards/generic.toml is a ready-made example), falling back to
// boarddef.Generic for a zero-config run.
func loadBoardDef() (*boarddef.Definition, error) {
	if path := os.Getenv("HMKSIM_BOARD_DEF"); path != "" {
		return boarddef.Load(path)
	}
	return boarddef.Generic(defaultSimKeys), nil
}

// loadBoardControl returns a GPIO-backed capability.BoardControl when
// HMKSIM_GPIO_CHIP is set, for a simulator run on a Linux host with a
// real reset supervisor attached, falling back to a console-logging
// stub otherwise.
func loadBoardControl(logger *slog.Logger) (capability.BoardControl, error) {
	chip := os.Getenv("HMKSIM_GPIO_CHIP")
	if chip == "" {
		return &consoleBoard{logger: logger}, nil
	}
	return newGPIOBoard(chip,
		envOr("HMKSIM_GPIO_BOOTLOADER_LINE", "bootloader-request"),
		envOr("HMKSIM_GPIO_RESET_LINE", "reset"),
		os.Getenv("HMKSIM_GPIO_STATUS_LED_LINE"),
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
