// SPDX-License-Identifier: BSD-3-Clause

// Package telemetry wires up OpenTelemetry tracer and meter providers for a
// board process. There is no collector on a keyboard, so the only two
// exporter types are NoOp (the default for a running board — spans and
// metrics are computed, then discarded) and Stdout (for local debugging of
// the hosted simulator).
//
//	shutdown, err := telemetry.Setup(ctx, telemetry.WithServiceName("hmksim"))
//	defer shutdown(ctx)
//
//	tracer := telemetry.GetTracer("scanloop")
package telemetry
