//go:build linux

/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"log"

	perf "github.com/hodgesds/perf-utils"
)

// countPhase runs each phase under a CPU cycle counter
func countPhase(w io.Writer) func(phase string, f func()) {
	return func(phase string, f func()) {
		var ran bool
		cycles, err := perf.CPUCycles(func() error {
			ran = true
			f()
			return nil
		})
		if err != nil {
			log.Printf("hardware counters unavailable for %s: %v", phase, err)
			if !ran {
				f()
			}
			return
		}
		fmt.Fprintf(w, "%s: %d cycles\n", phase, cycles.Value)
	}
}
