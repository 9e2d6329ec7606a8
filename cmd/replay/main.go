package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/lixenwraith/wobble-tower/trace"
)

func main() {
	var (
		tracePath = flag.String("trace", "", "path to a .trace.zst recorded with tower -trace")
		header    = flag.Bool("header", false, "print the recorded tuning and exit")
	)
	flag.Parse()

	if *tracePath == "" {
		fmt.Fprintln(os.Stderr, "missing -trace")
		os.Exit(2)
	}

	f, err := os.Open(*tracePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open trace:", err)
		os.Exit(1)
	}
	defer f.Close()

	if *header {
		r, err := trace.NewReader(f)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read trace:", err)
			os.Exit(1)
		}
		defer r.Close()
		out, err := r.Header().Tuning.Encode()
		if err != nil {
			fmt.Fprintln(os.Stderr, "encode tuning:", err)
			os.Exit(1)
		}
		fmt.Printf("trace v%d\n%s", r.Header().Version, out)
		return
	}

	res, err := trace.Verify(f)
	if err != nil {
		if errors.Is(err, trace.ErrDigestMismatch) {
			fmt.Fprintln(os.Stderr, "DIVERGED:", err)
		} else {
			fmt.Fprintln(os.Stderr, "verify:", err)
		}
		os.Exit(1)
	}

	fmt.Printf("OK ticks=%d resets=%d stack=%d outcome=%s\n", res.Ticks, res.Resets, res.Count, res.Outcome)
}
