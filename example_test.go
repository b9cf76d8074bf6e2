package prodcons_test

import (
	"context"
	"fmt"
	"time"

	"github.com/joeycumines/go-prodcons"
	"github.com/joeycumines/go-prodcons/deadline"
)

func ExampleRun() {
	noDelay := func() time.Duration { return 0 }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var received int
	res, err := prodcons.Run(ctx, prodcons.LockWithEvents, &prodcons.Config{
		Deadline:   deadline.New(),
		Capacity:   2,
		TotalTasks: 5,
		Duration:   10 * time.Second,
		// bounds the consumer's final wait, after the last item
		EventEmptyTimeout: 10 * time.Millisecond,
		ProduceDelay:      noDelay,
		ConsumeDelay: func() time.Duration {
			// stop early, once everything has been received
			if received++; received == 5 {
				cancel()
			}
			return 0
		},
	})
	if err != nil {
		panic(err)
	}

	fmt.Println(res.Code, res.Items)
	for _, w := range res.Workers {
		fmt.Println(w.Name, w.Outcome)
	}

	//output:
	//ok [1 2 3 4 5]
	//producer ok
	//consumer timed_out
}

func ExampleParseStrategy() {
	for _, s := range []string{`1`, `mutex-events`, `semaphore`} {
		strategy, err := prodcons.ParseStrategy(s)
		if err != nil {
			panic(err)
		}
		fmt.Printf("%d %s: %s\n", strategy, strategy, strategy.Description())
	}

	//output:
	//1 lock: Locks only (producer-consumer)
	//3 mutex-events: Mutex and events (producer-consumer)
	//4 semaphore: Counting semaphore (independent workers)
}
