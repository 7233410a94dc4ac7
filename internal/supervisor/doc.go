// Kinmap - Social Graph Friend Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinmap

/*
Package supervisor provides process supervision for Kinmap using suture v4.

This package implements a hierarchical supervisor tree that manages the
lifecycle of the long-running services in the application. It provides
Erlang/OTP-style supervision with automatic restart, failure isolation,
and graceful shutdown.

# Overview

The tree organizes services into two layers for failure isolation:

	RootSupervisor ("kinmap")
	├── WorkerSupervisor ("worker-layer")
	│   └── jobs.Runner (computation worker pool)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

This hierarchy ensures that a crash in the worker pool does not take down
the HTTP surface, so clients can still poll job status while the pool
restarts, and vice versa.

Supervision events are logged through sutureslog bridged onto the
application's zerolog logger.
*/
package supervisor
