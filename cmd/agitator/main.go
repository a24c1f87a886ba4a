// Package main - agitator
// Load generator for the telemetry surface: connects many WebSocket clients
// to a running starship-server, spams SET_RATE commands, and counts the
// telemetry traffic coming back.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Stats tracks load-test counters.
type Stats struct {
	MessagesSent     int64
	MessagesReceived int64
	Errors           int64
}

var systems = []string{"Propulsion", "Life Support", "Crew", "Generator"}
var rates = []string{"STANDARD", "SLOW", "FAST"}

func main() {
	serverURL := flag.String("url", "ws://localhost:8080/ws", "WebSocket server URL")
	numClients := flag.Int("clients", 20, "Number of concurrent clients")
	interval := flag.Duration("interval", 500*time.Millisecond, "Command interval per client")
	duration := flag.Duration("duration", 30*time.Second, "Test duration")
	flag.Parse()

	fmt.Println("=========================================")
	fmt.Println("AGITATOR - Telemetry Load Generator")
	fmt.Println("=========================================")
	fmt.Printf("Server:   %s\n", *serverURL)
	fmt.Printf("Clients:  %d\n", *numClients)
	fmt.Printf("Interval: %v\n", *interval)
	fmt.Printf("Duration: %v\n", *duration)
	fmt.Println("=========================================")

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	go func() {
		<-quit
		cancel()
	}()

	stats := &Stats{}
	var wg sync.WaitGroup

	for i := 0; i < *numClients; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runClient(ctx, *serverURL, *interval, stats, id)
		}(i)
	}

	wg.Wait()

	fmt.Println("\nResults:")
	fmt.Printf("  Commands sent:      %d\n", atomic.LoadInt64(&stats.MessagesSent))
	fmt.Printf("  Telemetry received: %d\n", atomic.LoadInt64(&stats.MessagesReceived))
	fmt.Printf("  Errors:             %d\n", atomic.LoadInt64(&stats.Errors))
}

func runClient(ctx context.Context, url string, interval time.Duration, stats *Stats, id int) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		atomic.AddInt64(&stats.Errors, 1)
		log.Printf("client %d: dial failed: %v", id, err)
		return
	}
	defer conn.Close()

	// Reader: count telemetry frames until the connection drops.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
			atomic.AddInt64(&stats.MessagesReceived, 1)
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case <-ticker.C:
			cmd := map[string]string{
				"type":   "SET_RATE",
				"system": systems[rand.Intn(len(systems))],
				"rate":   rates[rand.Intn(len(rates))],
			}
			payload, _ := json.Marshal(cmd)
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				atomic.AddInt64(&stats.Errors, 1)
				return
			}
			atomic.AddInt64(&stats.MessagesSent, 1)
		}
	}
}
