package main

import (
	"flag"
	"fmt"
	"net/http"
	"time"
)

// Usage example on the command line:
// > go run main.go -url=http://localhost:8080/ -timeout=2m
func main() {
	urlPtr := flag.String("url", "http://localhost:8080/", "the page that must answer with 200 OK")
	timeoutPtr := flag.Duration("timeout", 0, "give up after this duration, 0 waits forever")
	flag.Parse()

	client := &http.Client{Timeout: 5 * time.Second}
	start := time.Now()
	totalWaitTime := 0
	for {
		res, err := client.Get(*urlPtr)
		if err == nil {
			res.Body.Close()
			if res.StatusCode == http.StatusOK {
				fmt.Println(res.Status)
				break
			}
			fmt.Println(res.Status)
		} else {
			fmt.Println(err)
		}
		if *timeoutPtr > 0 && time.Since(start) > *timeoutPtr {
			fmt.Printf("Gave up after %d seconds", totalWaitTime)
			fmt.Println()
			panic("service not available")
		}
		totalWaitTime += 5
		fmt.Printf("Waiting %d seconds", totalWaitTime)
		fmt.Println()
		time.Sleep(5 * time.Second)
	}
}
