// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Command nimbusctl is a small smoke-test client: it connects to a
// deployment, pings it, and lists its databases.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/nimbusdb/nimbus-go-driver/mongo"
)

func main() {
	uri := flag.String("uri", os.Getenv("NIMBUS_URI"), "mongodb:// connection string")
	timeout := flag.Duration("timeout", 10*time.Second, "overall deadline for the smoke test")
	flag.Parse()

	if *uri == "" {
		log.Fatal("nimbusctl: -uri or NIMBUS_URI must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, *uri)
	if err != nil {
		log.Fatalf("nimbusctl: connect: %v", err)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("nimbusctl: ping: %v", err)
	}
	fmt.Println("ping: ok")

	names, err := client.ListDatabaseNames(ctx)
	if err != nil {
		log.Fatalf("nimbusctl: listDatabases: %v", err)
	}
	for _, name := range names {
		fmt.Println(name)
	}
}
