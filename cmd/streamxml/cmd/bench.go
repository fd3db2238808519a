// Copyright 2025 EasyAgent
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/samhvw8/partial-xml-stream-parser-sub001"
	"github.com/samhvw8/partial-xml-stream-parser-sub001/benchmark"
)

var benchChunkSize int

var benchCmd = &cobra.Command{
	Use:   "bench [file]",
	Short: "Report parse throughput for a file split into fixed-size chunks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		report := benchmark.Run(string(data), benchChunkSize, streamxml.WithOptions(opts))
		fmt.Println(report.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(benchCmd)
	benchCmd.Flags().IntVarP(&benchChunkSize, "chunk-size", "n", 256, "bytes per simulated chunk")
}
