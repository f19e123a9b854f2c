package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/snowflakedb/gosnowrest"
)

// Submits a slow query asynchronously, polls its status from this process
// and cancels it on Ctrl-C.
func main() {
	seconds := flag.Int("seconds", 30, "duration of the server-side sleep")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := gosnowrest.GetConfigFromEnv(gosnowrest.EnvConfigParams)
	if err != nil {
		log.Fatalf("failed to create Config: %v", err)
	}
	client, err := gosnowrest.NewClient(cfg)
	if err != nil {
		log.Fatalf("failed to create client. err: %v", err)
	}

	query := fmt.Sprintf("CALL SYSTEM$WAIT(%v, 'SECONDS')", *seconds)
	handle, err := client.ExecAsync(ctx, &gosnowrest.StatementRequest{SQL: query})
	if err != nil {
		log.Fatalf("failed to submit the query. err: %v", err)
	}
	fmt.Printf("submitted, statement handle: %v\n", handle)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		<-c
		log.Println("Caught signal, canceling the statement...")
		acknowledged, err := client.CancelStatement(context.Background(), handle)
		if err != nil {
			log.Printf("cancel failed: %v", err)
		} else {
			log.Printf("cancel acknowledged: %v", acknowledged)
		}
		cancel()
	}()

	for {
		result, running, err := client.StatementStatus(ctx, handle)
		if err != nil {
			log.Fatalf("failed to check the status. err: %v", err)
		}
		if !running {
			fmt.Printf("finished in state %v, success: %v\n", result.State, result.Success)
			if !result.Success {
				fmt.Printf("code: %v, message: %v\n", result.ErrorCode, result.ErrorMessage)
			}
			return
		}
		fmt.Println("still running...")
		select {
		case <-ctx.Done():
			return
		case <-time.After(2 * time.Second):
		}
	}
}
