// Command sortbench benchmarks selection, tree and counting sort and exports
// the timings for plotting.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/naastyyshha/sortbench/internal/cli"
)

func main() {
	// Settings such as SORTBENCH_MEM_BUDGET or AWS credentials may live in .env.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "error: load .env: %v\n", err)
		os.Exit(1)
	}

	if err := cli.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
