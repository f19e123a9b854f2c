package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/snowflakedb/gosnowrest"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	defer func() {
		signal.Stop(c)
		cancel()
	}()
	go func() {
		<-c
		log.Println("Caught signal, canceling...")
		cancel()
	}()

	cfg, err := gosnowrest.GetConfigFromEnv(gosnowrest.EnvConfigParams)
	if err != nil {
		log.Fatalf("failed to create Config: %v", err)
	}
	client, err := gosnowrest.NewClient(cfg)
	if err != nil {
		log.Fatalf("failed to create client. err: %v", err)
	}

	query := "SELECT 1"
	result, err := client.Exec(ctx, &gosnowrest.StatementRequest{SQL: query})
	if err != nil {
		log.Fatalf("failed to run a query. %v, err: %v", query, err)
	}
	if !result.Success {
		log.Fatalf("query failed. code: %v, message: %v", result.ErrorCode, result.ErrorMessage)
	}
	v, ok := result.Value(0, 0)
	if !ok || v != "1" {
		log.Fatalf("failed to get 1. got: %v", v)
	}
	fmt.Printf("Congrats! You have successfully run %v with Snowflake DB!\n", query)
}
