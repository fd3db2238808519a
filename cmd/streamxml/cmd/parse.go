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
	"io"
	golog "log"
	"os"

	"github.com/go-logr/stdr"
	"github.com/spf13/cobra"

	"github.com/samhvw8/partial-xml-stream-parser-sub001"
	"github.com/samhvw8/partial-xml-stream-parser-sub001/markup"
)

var (
	chunkSize int
	verbose   bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a file (or stdin) in fixed-size chunks and print the final document",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		var data []byte
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		parserOpts := []streamxml.ParserOption{streamxml.WithOptions(opts)}
		if verbose {
			stdr.SetVerbosity(2)
			parserOpts = append(parserOpts, streamxml.WithLogger(stdr.New(golog.Default())))
		}
		parser := streamxml.NewParser(parserOpts...)

		size := chunkSize
		if size <= 0 {
			size = len(data)
			if size == 0 {
				size = 1
			}
		}

		for i := 0; i < len(data); i += size {
			end := i + size
			if end > len(data) {
				end = len(data)
			}
			result, err := parser.ParseStream(string(data[i:end]))
			if err != nil {
				return fmt.Errorf("parsing chunk: %w", err)
			}
			if verbose {
				fmt.Printf("chunk %d: partial=%v\n", i/size, result.Metadata.Partial)
			}
		}

		final, err := parser.ParseStream(nil)
		if err != nil {
			return fmt.Errorf("finalizing: %w", err)
		}

		fmt.Print(markup.Serialize(final.XML, markup.Options{
			TextNodeName:        opts.TextNodeName,
			AttributeNamePrefix: opts.AttributeNamePrefix,
			Indent:              "  ",
		}))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().IntVarP(&chunkSize, "chunk-size", "n", 0, "split input into chunks of this many bytes (0 = parse whole)")
	parseCmd.Flags().BoolVarP(&verbose, "verbose", "V", false, "log each chunk's partial flag and emit parser diagnostics")
}
