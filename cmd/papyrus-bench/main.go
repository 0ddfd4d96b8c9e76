// Command papyrus-bench seeds a Papyrus layer with synthetic records and
// reports how long put/iter/forward/backward took against it. It exists
// as a quick, runnable sanity check alongside the package's in-process
// benchmarks.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/go-faker/faker/v4"

	"papyrus"
)

var (
	layerURL       *string
	seedNumRecords *int
)

func setupFlags() {
	layerURL = flag.String("layer", "mem://", "Layer URL to seed (mem:// or wal://path).")
	seedNumRecords = flag.Int("records", 10000, "Number of records to seed with go-faker data.")
	flag.Usage = func() {
		fmt.Println("\npapyrus-bench\n\nArguments:")
		flag.PrintDefaults()
	}
	flag.Parse()
}

func seed(l papyrus.Layer, n int) time.Duration {
	start := time.Now()
	for i := 0; i < n; i++ {
		k := papyrus.NewStringKey(faker.Word() + faker.Word())
		v, err := papyrus.NewRawValue([]byte(faker.Sentence()))
		if err != nil {
			log.Fatalf("papyrus-bench: building value: %v", err)
		}
		l.Put(k, v)
	}
	return time.Since(start)
}

func timeIter(l papyrus.Layer) time.Duration {
	start := time.Now()
	_ = l.Iter()
	return time.Since(start)
}

func timeForwardBackward(l papyrus.Layer) (time.Duration, time.Duration) {
	fStart := time.Now()
	_ = l.Forward(nil)
	fElapsed := time.Since(fStart)

	bStart := time.Now()
	_ = l.Backward(nil)
	bElapsed := time.Since(bStart)

	return fElapsed, bElapsed
}

func main() {
	setupFlags()

	l, ok := papyrus.GetLayer(*layerURL)
	if !ok {
		log.Fatalf("papyrus-bench: could not open layer %q", *layerURL)
	}
	defer l.Unlink()

	putElapsed := seed(l, *seedNumRecords)
	fmt.Printf("put %d records in %s (%s/op)\n", *seedNumRecords, putElapsed, putElapsed/time.Duration(*seedNumRecords))

	iterElapsed := timeIter(l)
	fmt.Printf("iter: %s\n", iterElapsed)

	fwdElapsed, backElapsed := timeForwardBackward(l)
	fmt.Printf("forward: %s\n", fwdElapsed)
	fmt.Printf("backward: %s\n", backElapsed)
}
