// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/extbuild/internal/adapters/config"
	_ "go.trai.ch/extbuild/internal/adapters/esbuild"
	_ "go.trai.ch/extbuild/internal/adapters/logger"
	_ "go.trai.ch/extbuild/internal/adapters/telemetry"
	_ "go.trai.ch/extbuild/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/extbuild/internal/app"
	_ "go.trai.ch/extbuild/internal/engine/discovery"
	_ "go.trai.ch/extbuild/internal/engine/scheduler"
)
