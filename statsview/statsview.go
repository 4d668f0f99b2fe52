/*
	Copyright 2015 Franc[e]sco (lolisamurai@tfwno.gf)
	This file is part of go-hachi.
	go-hachi is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.
	go-hachi is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.
	You should have received a copy of the GNU General Public License
	along with go-hachi. If not, see <http://www.gnu.org/licenses/>.
*/

// Package statsview runs a local HTTP server offering runtime statistics of
// the emulator process, useful to watch allocations and goroutines while a
// program runs. Underlying functionality is provided by
// "github.com/go-echarts/statsview".
//
// After launch, graphical statistics will be viewable at:
//
//	localhost:12600/debug/statsview
//
// And standard Go pprof statistics available at:
//
//	localhost:12600/debug/pprof/
package statsview

import (
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/retroenv/retrogolib/log"
)

// DefaultAddress is the listen address used when none is given.
const DefaultAddress = "localhost:12600"

const path = "/debug/statsview"

// URL returns the address of the statistics page for a listen address.
func URL(addr string) string {
	if addr == "" {
		addr = DefaultAddress
	}
	return "http://" + addr + path
}

// Launch starts the statistics server on addr in a new goroutine. An empty
// addr means DefaultAddress.
func Launch(logger *log.Logger, addr string) {
	if addr == "" {
		addr = DefaultAddress
	}
	viewer.SetConfiguration(viewer.WithAddr(addr))

	go func() {
		mgr := statsview.New()
		mgr.Start()
	}()

	logger.Info("Stats server available", log.String("url", URL(addr)))
}
