// Dev utility: publishes a handful of sample QR payloads to the broker so
// the listener pipeline can be exercised end to end.
//
// Usage: go run scripts/publish_sample_scans.go
package main

import (
	"fmt"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

func main() {
	brokerURL := getenv("MQTT_BROKER_URL", "tcp://localhost:1883")
	topic := getenv("MQTT_TOPIC", "warehouse/qr")

	payloads := []string{
		"name=Widget|category=Tools|quantity=5",
		"name=Widget|category=Tools|quantity=3",
		"name=Hammer|category=Tools|quantity=12",
		"name=Bandage|category=Medical|quantity=40",
		"quantity=5",                                 // missing name/category, should 400
		"name=Widget|category=Tools|quantity=-1",     // invalid quantity, should 400
		"name=Cable=HDMI|category=AV|quantity=7",     // value containing '='
		"lot=77|name=Crate|category=Bulk|quantity=2", // unknown key ignored
	}

	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID("stock-ingest-sample-publisher")

	client := mqtt.NewClient(opts)
	token := client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to broker %s: %v\n", brokerURL, err)
		os.Exit(1)
	}
	defer client.Disconnect(250)

	for _, p := range payloads {
		t := client.Publish(topic, 0, false, p)
		t.Wait()
		if err := t.Error(); err != nil {
			fmt.Fprintf(os.Stderr, "Publish failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("published: %s\n", p)
		time.Sleep(200 * time.Millisecond)
	}

	fmt.Printf("published %d payloads to %s\n", len(payloads), topic)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
